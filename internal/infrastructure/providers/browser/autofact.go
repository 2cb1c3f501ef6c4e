package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrcar-cl/tasador/internal/domain/pricing"
	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
)

// AutofactProvider reads the valuation page of autofact.cl, which publishes
// average, lowest and highest prices per make/model/year.
type AutofactProvider struct {
	session *Session
	band    pricing.Band
}

// NewAutofactProvider builds the provider on a shared Session.
func NewAutofactProvider(session *Session, band pricing.Band) *AutofactProvider {
	return &AutofactProvider{session: session, band: band}
}

// Name implements pricing.Provider.
func (p *AutofactProvider) Name() string { return "autofact" }

// QuotePrices implements pricing.Provider.  The full model slug is tried
// first; when it differs from the bare first word of the model, that
// simplified form is tried as a second chance.
func (p *AutofactProvider) QuotePrices(ctx context.Context, q pricing.Query) (pricing.Quote, error) {
	slug := vehicle.NormalizeModelSlug(q.Model)
	urls := []string{autofactURL(q.Make, slug, q.Year)}

	if simple := firstWordSlug(q.Model); simple != "" && simple != slug {
		urls = append(urls, autofactURL(q.Make, simple, q.Year))
	}

	var lastErr error
	for _, url := range urls {
		text, err := p.session.PageText(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}

		amounts := pricing.ExtractAmounts(text, p.band)
		if len(amounts) == 0 {
			p.session.logger.Debug("no plausible prices on page", logging.String("url", url))
			continue
		}

		quote := pricing.Quote{}
		for _, a := range amounts {
			quote.Candidates = append(quote.Candidates, pricing.Candidate{Amount: a, Source: p.Name()})
		}
		return quote, nil
	}

	if lastErr != nil {
		return pricing.Quote{}, lastErr
	}
	return pricing.Quote{}, nil
}

func autofactURL(make, modelSlug, year string) string {
	return fmt.Sprintf("https://www.autofact.cl/valor-comercial-autos/%s/%s/%s",
		strings.ToLower(strings.TrimSpace(make)), modelSlug, year)
}

// firstWordSlug is the crudest model simplification: just the first word.
func firstWordSlug(model string) string {
	fields := strings.Fields(strings.TrimSpace(model))
	if len(fields) == 0 {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(fields[0]), "-", "_")
}
