// Package registry implements the roster-backed plate provider and the
// roster file importer.  The roster is the monthly SGPRT public-transport
// vehicle export, loaded into PostgreSQL or into an in-process index for
// database-free deployments.
package registry

import (
	"context"
	"fmt"

	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// Store is the persistence surface the provider reads from.
type Store interface {
	GetByPlate(ctx context.Context, plate string) (*vehicle.Record, error)
}

// Provider resolves plates from the imported roster.  It is the cheapest and
// most trusted plate source, so it sits first in the chain.
type Provider struct {
	store Store
}

// NewProvider builds the roster provider.
func NewProvider(store Store) *Provider {
	return &Provider{store: store}
}

// Name implements vehicle.Provider.
func (p *Provider) Name() string { return "registry" }

// LookupPlate implements vehicle.Provider.  A plate missing from the roster
// is a miss, not a failure; only transport errors propagate.
func (p *Provider) LookupPlate(ctx context.Context, plate string) (vehicle.Lookup, error) {
	rec, err := p.store.GetByPlate(ctx, plate)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodePlateNotFound) {
			return vehicle.Lookup{
				Found:  false,
				Reason: fmt.Sprintf("Patente %s no encontrada en la base de datos", plate),
			}, nil
		}
		return vehicle.Lookup{}, err
	}

	return vehicle.Lookup{Found: true, Vehicle: rec, Source: p.Name()}, nil
}
