// Package valuation orchestrates plate resolution, market pricing and the
// offer formulas into the product-level operations.
package valuation

import (
	"context"

	"github.com/mrcar-cl/tasador/internal/domain/pricing"
	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// Result is a complete valuation: the market estimate plus the commercial
// offers derived from it.  Vehicle is present only for plate-initiated
// valuations.
type Result struct {
	Vehicle  *vehicle.Record  `json:"vehicle,omitempty"`
	Estimate pricing.Estimate `json:"estimate"`
	Offer    pricing.Offer    `json:"offer"`
}

// Gate admits priced valuations against a daily budget and reports its
// consumption.  *quota.Gate is the production implementation.
type Gate interface {
	Admit(ctx context.Context) error
	Usage(ctx context.Context) (used, remaining int64, err error)
}

// Service wires the resolvers, the pricing formula and the quota gate.
type Service struct {
	plates  *vehicle.Resolver
	prices  *pricing.Resolver
	formula *pricing.Formula
	gate    Gate
	logger  logging.Logger
}

// NewService builds the valuation Service.  All collaborators are required
// except the logger.
func NewService(plates *vehicle.Resolver, prices *pricing.Resolver,
	formula *pricing.Formula, gate Gate, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{
		plates:  plates,
		prices:  prices,
		formula: formula,
		gate:    gate,
		logger:  logger.Named("valuation"),
	}
}

// ResolvePlate identifies the vehicle behind a license plate.  It does not
// consume quota: identity lookups are cheap compared to priced valuations.
func (s *Service) ResolvePlate(ctx context.Context, plate string) (vehicle.Lookup, error) {
	return s.plates.Resolve(ctx, plate)
}

// Valuate prices a vehicle described directly by the caller.  One unit of
// the daily quota is consumed before any provider is consulted.
func (s *Service) Valuate(ctx context.Context, q pricing.Query) (Result, error) {
	if err := s.gate.Admit(ctx); err != nil {
		return Result{}, err
	}

	est, err := s.prices.Resolve(ctx, q)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Estimate: est,
		Offer:    s.formula.Compute(est.Average),
	}, nil
}

// ValuatePlate resolves a plate to a vehicle and then prices it.  The plate
// must resolve; an unidentified vehicle cannot be priced.
func (s *Service) ValuatePlate(ctx context.Context, plate string, mileage int, region string) (Result, error) {
	lookup, err := s.plates.Resolve(ctx, plate)
	if err != nil {
		return Result{}, err
	}
	if !lookup.Found {
		return Result{}, errors.New(errors.ErrCodePlateNotFound, lookup.Reason)
	}

	res, err := s.Valuate(ctx, pricing.Query{
		Make:    lookup.Vehicle.Make,
		Model:   lookup.Vehicle.Model,
		Year:    lookup.Vehicle.Year,
		Mileage: mileage,
		Region:  region,
	})
	if err != nil {
		return Result{}, err
	}

	res.Vehicle = lookup.Vehicle
	return res, nil
}

// QuotaUsage exposes today's consumed and remaining valuation budget.
func (s *Service) QuotaUsage(ctx context.Context) (used, remaining int64, err error) {
	return s.gate.Usage(ctx)
}
