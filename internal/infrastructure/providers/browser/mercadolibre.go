package browser

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mrcar-cl/tasador/internal/domain/pricing"
	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
)

// listingCardSelector matches the result cards on a MercadoLibre vehicle
// search page.  Class names rotate between frontend releases, so the match
// is on substrings rather than exact names.
const listingCardSelector = `[class*="card"], [class*="listing"], [class*="item"]`

var (
	yearTagPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	loosePrice     = regexp.MustCompile(`\$\s*[\d.,]+`)
)

// MercadoLibreProvider searches vehiculos.mercadolibre.cl listings.
type MercadoLibreProvider struct {
	session *Session
	band    pricing.Band
}

// NewMercadoLibreProvider builds the provider on a shared Session.
func NewMercadoLibreProvider(session *Session, band pricing.Band) *MercadoLibreProvider {
	return &MercadoLibreProvider{session: session, band: band}
}

// Name implements pricing.Provider.
func (p *MercadoLibreProvider) Name() string { return "mercadolibre" }

// QuotePrices implements pricing.Provider.
func (p *MercadoLibreProvider) QuotePrices(ctx context.Context, q pricing.Query) (pricing.Quote, error) {
	texts, err := p.session.ElementTexts(ctx, mercadoLibreURL(q.Make, q.Model, q.Year), listingCardSelector)
	if err != nil {
		return pricing.Quote{}, err
	}

	return pricing.Quote{Candidates: parseListingCards(texts, p.band, p.Name())}, nil
}

func mercadoLibreURL(make, model, year string) string {
	return fmt.Sprintf("https://vehiculos.mercadolibre.cl/%s-%s-%s_NoIndex_True",
		strings.ToLower(strings.TrimSpace(make)), vehicle.NormalizeModelSlug(model), year)
}

// parseListingCards pulls year-tagged prices out of listing card texts.
// Cards without a recognizable year are dropped: on a search page a price
// with no year nearby usually belongs to an ad, not a listing.  Year
// tolerance is left to the price resolver.
func parseListingCards(texts []string, band pricing.Band, source string) []pricing.Candidate {
	var out []pricing.Candidate
	for _, text := range texts {
		year := yearTagPattern.FindString(text)
		if year == "" {
			continue
		}

		m := loosePrice.FindString(text)
		if m == "" {
			continue
		}
		digits := keepDigits(m)
		// Fewer than seven digits cannot be a CLP car price; it is a
		// monthly installment or a UF figure.
		if len(digits) < 7 {
			continue
		}
		amount, err := strconv.Atoi(digits)
		if err != nil || !band.Contains(amount) {
			continue
		}

		out = append(out, pricing.Candidate{Amount: amount, Year: year, Source: source})
	}
	return out
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
