package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrcar-cl/tasador/internal/domain/pricing"
)

// ChileAutosProvider scans a chileautos.cl search results page.  It is the
// last scraping fallback: the page mixes listing prices with promotional
// amounts, so the plausibility band does most of the filtering.
type ChileAutosProvider struct {
	session *Session
	band    pricing.Band
}

// NewChileAutosProvider builds the provider on a shared Session.
func NewChileAutosProvider(session *Session, band pricing.Band) *ChileAutosProvider {
	return &ChileAutosProvider{session: session, band: band}
}

// Name implements pricing.Provider.
func (p *ChileAutosProvider) Name() string { return "chileautos" }

// QuotePrices implements pricing.Provider.
func (p *ChileAutosProvider) QuotePrices(ctx context.Context, q pricing.Query) (pricing.Quote, error) {
	text, err := p.session.PageText(ctx, chileAutosURL(q.Make, q.Model, q.Year))
	if err != nil {
		return pricing.Quote{}, err
	}

	quote := pricing.Quote{}
	for _, a := range pricing.ExtractAmounts(text, p.band) {
		quote.Candidates = append(quote.Candidates, pricing.Candidate{Amount: a, Source: p.Name()})
	}
	return quote, nil
}

func chileAutosURL(make, model, year string) string {
	return fmt.Sprintf("https://www.chileautos.cl/vehiculos/autos-veh%%C3%%ADculo/%s/%s/%s-ano/",
		strings.ToLower(strings.TrimSpace(make)), firstWordSlug(model), year)
}
