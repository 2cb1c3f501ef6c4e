package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// PlateProvider asks Gemini, grounded with Google Search, to identify a
// Chilean vehicle from its plate using public records.
type PlateProvider struct {
	client *Client
}

// NewPlateProvider wraps an existing Client.
func NewPlateProvider(client *Client) *PlateProvider {
	return &PlateProvider{client: client}
}

// Name implements vehicle.Provider.
func (p *PlateProvider) Name() string { return "gemini" }

// LookupPlate implements vehicle.Provider.
func (p *PlateProvider) LookupPlate(ctx context.Context, plate string) (vehicle.Lookup, error) {
	text, _, err := p.client.generate(ctx, platePrompt(plate))
	if err != nil {
		return vehicle.Lookup{}, err
	}

	block, ok := ExtractJSONBlock(text)
	if !ok {
		return vehicle.Lookup{}, errors.New(errors.ErrCodeProviderParseError,
			"gemini plate reply contained no JSON")
	}

	var reply plateReply
	if err := json.Unmarshal([]byte(block), &reply); err != nil {
		return vehicle.Lookup{}, errors.Wrap(err, errors.ErrCodeProviderParseError,
			"parse gemini plate reply")
	}

	if !reply.Found || reply.Make == "" {
		return vehicle.Lookup{
			Found:  false,
			Reason: fmt.Sprintf("Patente %s no encontrada en registros públicos", plate),
		}, nil
	}

	return vehicle.Lookup{
		Found: true,
		Vehicle: &vehicle.Record{
			Plate: plate,
			Make:  reply.Make,
			Model: reply.Model,
			Year:  reply.Year,
		},
		Source: p.Name(),
	}, nil
}

func platePrompt(plate string) string {
	return fmt.Sprintf(`You are a Chilean vehicle records assistant.

Search public Chilean sources (patentechile.com, volanteomaleta.com, autoseguro.gob.cl)
for the vehicle registered under the license plate %q (patente chilena).

RETURN JSON ONLY (No markdown):
{
  "found": boolean,
  "make": "string (MARCA, empty if unknown)",
  "model": "string (MODELO, empty if unknown)",
  "year": "string (four digit year, empty if unknown)"
}

If the plate cannot be identified with confidence, return found=false.`, plate)
}
