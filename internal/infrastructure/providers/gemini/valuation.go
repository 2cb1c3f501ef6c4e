package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrcar-cl/tasador/internal/domain/pricing"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// ValuationProvider asks Gemini, grounded with Google Search, for current
// asking prices of the queried vehicle on Chilean marketplaces.
type ValuationProvider struct {
	client *Client
}

// NewValuationProvider wraps an existing Client.
func NewValuationProvider(client *Client) *ValuationProvider {
	return &ValuationProvider{client: client}
}

// Name implements pricing.Provider.
func (p *ValuationProvider) Name() string { return "gemini" }

// QuotePrices implements pricing.Provider.  The model's min, average and max
// become the price candidates; its narrative and citations travel along as
// quote insights.
func (p *ValuationProvider) QuotePrices(ctx context.Context, q pricing.Query) (pricing.Quote, error) {
	text, grounding, err := p.client.generate(ctx, valuationPrompt(q))
	if err != nil {
		return pricing.Quote{}, err
	}

	reply, err := parseValuationReply(text)
	if err != nil {
		return pricing.Quote{}, errors.Wrap(err, errors.ErrCodeProviderParseError,
			"parse gemini valuation reply")
	}

	quote := pricing.Quote{
		Confidence: reply.ConfidenceScore / 100,
		Analysis:   reply.MarketAnalysis,
		Listings:   mergeListings(reply.FoundListings, grounding),
	}
	for _, amount := range []int{int(reply.MinPrice), int(reply.AvgPrice), int(reply.MaxPrice)} {
		if amount > 0 {
			quote.Candidates = append(quote.Candidates, pricing.Candidate{
				Amount: amount,
				Year:   q.Year,
				Source: p.Name(),
			})
		}
	}

	p.client.logger.Debug("gemini valuation quote",
		logging.String("model", q.Model),
		logging.Int("candidates", len(quote.Candidates)),
		logging.Int("listings", len(quote.Listings)))
	return quote, nil
}

// mergeListings combines the search grounding citations with the listings
// the model reported, deduplicated by URL, keeping only Chilean sites.
// Grounding chunks come first: they are attested by the search tool rather
// than generated.
func mergeListings(modelListings []replyListing, grounding []groundingSource) []pricing.Listing {
	seen := make(map[string]struct{})
	var out []pricing.Listing

	for _, g := range grounding {
		if !isChileanListing(g.URI) {
			continue
		}
		if _, dup := seen[g.URI]; dup {
			continue
		}
		seen[g.URI] = struct{}{}
		out = append(out, pricing.Listing{Title: g.Title, URL: g.URI, Source: "google-search"})
	}

	for _, l := range modelListings {
		if l.URL == "" || !isChileanListing(l.URL) {
			continue
		}
		if _, dup := seen[l.URL]; dup {
			continue
		}
		seen[l.URL] = struct{}{}
		title := l.Title
		if title == "" {
			title = "Listado Vehículo"
		}
		out = append(out, pricing.Listing{Title: title, URL: l.URL, Price: int(l.Price), Source: "gemini"})
	}

	return out
}

func valuationPrompt(q pricing.Query) string {
	var b strings.Builder

	b.WriteString("Act as a senior vehicle appraiser specializing EXCLUSIVELY in the Chilean automotive market (Chile).\n\n")
	fmt.Fprintf(&b, "TARGET VEHICLE: %s %s %s\n", q.Year, q.Make, q.Model)
	if q.Mileage > 0 {
		fmt.Fprintf(&b, "MILEAGE: %d km\n", q.Mileage)
	}
	if q.Region != "" {
		fmt.Fprintf(&b, "LOCATION: %s, Chile\n", q.Region)
	}
	b.WriteString("CURRENCY: CLP (Peso Chileno)\n\n")

	b.WriteString(`STRICT SEARCH & ANALYSIS PROTOCOL:
1. SEARCH: You MUST verify prices ONLY on Chilean websites.
   - Primary Sources: chileautos.cl, mercadolibre.cl, yapo.cl, autocosmos.cl, kavak.com/cl, macal.cl, autofact.cl.
   - EXCLUDE: Prices in USD, EUR, or UF (unless converted to CLP).
   - EXCLUDE: Foreign sites (cars.com, etc).

2. DATA FILTERING:
`)
	if q.Mileage > 0 {
		fmt.Fprintf(&b, "   - Factor in the MILEAGE (%d km).\n", q.Mileage)
	}
	b.WriteString(`   - Analyze at least 3-5 specific listings.

3. URL EXTRACTION (CRITICAL):
   - You MUST extract the direct URLs of the listings you found.
   - If you find a listing on Chileautos or MercadoLibre, copy the URL into the 'foundListings' array in the JSON.
   - The user needs to click these links to verify the price.

RETURN JSON ONLY (No markdown):
{
  "minPrice": number (integer, CLP),
  "maxPrice": number (integer, CLP),
  "avgPrice": number (integer, CLP),
  "currency": "CLP",
  "marketAnalysis": "string (2-3 sentences explaining availability and price range)",
  "confidenceScore": number (0-100),
  "foundListings": [
     {
       "title": "string (e.g. Chileautos - 2019 Toyota Rav4 - $15.000.000)",
       "url": "string (The full http link to the listing)",
       "price": "string (The price of this specific listing)"
     }
  ]
}
`)

	return b.String()
}
