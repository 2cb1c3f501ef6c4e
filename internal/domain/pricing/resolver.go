package pricing

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// Provider produces price observations from one marketplace or search
// backend.  An error means the source could not be consulted; an empty Quote
// means it answered but saw nothing usable.
type Provider interface {
	Name() string
	QuotePrices(ctx context.Context, q Query) (Quote, error)
}

// FallbackParams drive the depreciation estimate used when no provider
// yields a plausible price: max(FloorPrice, BasePrice * DecayRate^age).
type FallbackParams struct {
	BasePrice  int
	DecayRate  float64
	FloorPrice int
}

// Resolver consults price providers in order and condenses the first usable
// quote into an Estimate.
type Resolver struct {
	providers []Provider
	timeout   time.Duration
	band      Band
	yearTol   int
	fallback  FallbackParams
	logger    logging.Logger

	// now is swappable for tests of the depreciation fallback.
	now func() time.Time
}

// NewResolver builds a market price Resolver.  Provider order is a trust
// ranking: the first provider returning at least one plausible candidate
// decides the estimate, later providers are never consulted.
func NewResolver(providers []Provider, timeout time.Duration, band Band, yearTolerance int,
	fallback FallbackParams, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{
		providers: providers,
		timeout:   timeout,
		band:      band,
		yearTol:   yearTolerance,
		fallback:  fallback,
		logger:    logger.Named("price-resolver"),
		now:       time.Now,
	}
}

// Resolve finds the market price for the queried vehicle.  Provider faults
// are isolated: a failing provider contributes zero candidates and the chain
// moves on.  When the whole chain comes up empty the depreciation fallback
// produces a synthetic estimate, so Resolve only errors on cancellation or
// an empty query.
func (r *Resolver) Resolve(ctx context.Context, q Query) (Estimate, error) {
	if q.Make == "" && q.Model == "" {
		return Estimate{}, errors.InvalidParam("price query needs a make or model")
	}

	for _, p := range r.providers {
		if ctx.Err() != nil {
			return Estimate{}, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "price resolution canceled")
		}

		quote, err := r.quoteOne(ctx, p, q)
		if err != nil {
			r.logger.Warn("price provider failed",
				logging.String("provider", p.Name()),
				logging.String("model", q.Model),
				logging.Err(err))
			continue
		}

		amounts := r.filterCandidates(quote.Candidates, q.Year)
		if len(amounts) == 0 {
			continue
		}

		est := summarize(amounts)
		est.Source = p.Name()
		est.Confidence = quote.Confidence
		est.Analysis = quote.Analysis
		est.Listings = quote.Listings

		r.logger.Info("market price resolved",
			logging.String("provider", p.Name()),
			logging.Int("listings", est.NumListings),
			logging.Int("average", est.Average))
		return est, nil
	}

	est := r.depreciationEstimate(q.Year)
	r.logger.Info("market price estimated by depreciation",
		logging.String("year", q.Year),
		logging.Int("average", est.Average))
	return est, nil
}

func (r *Resolver) quoteOne(ctx context.Context, p Provider, q Query) (Quote, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return p.QuotePrices(ctx, q)
}

// filterCandidates applies the plausibility band and the year tolerance,
// then deduplicates amounts preserving first-seen order.  The year filter
// only applies when both the query year and the candidate's year tag parse;
// untagged candidates always pass.
func (r *Resolver) filterCandidates(candidates []Candidate, queryYear string) []int {
	targetYear, haveTarget := parseYear(queryYear)

	seen := make(map[int]struct{}, len(candidates))
	amounts := make([]int, 0, len(candidates))
	for _, c := range candidates {
		if !r.band.Contains(c.Amount) {
			continue
		}
		if haveTarget {
			if y, ok := parseYear(c.Year); ok && abs(y-targetYear) > r.yearTol {
				continue
			}
		}
		if _, dup := seen[c.Amount]; dup {
			continue
		}
		seen[c.Amount] = struct{}{}
		amounts = append(amounts, c.Amount)
	}
	return amounts
}

func summarize(amounts []int) Estimate {
	min, max, sum := amounts[0], amounts[0], 0
	for _, a := range amounts {
		if a < min {
			min = a
		}
		if a > max {
			max = a
		}
		sum += a
	}
	return Estimate{
		Average:     sum / len(amounts),
		Min:         min,
		Max:         max,
		NumListings: len(amounts),
	}
}

// depreciationEstimate synthesizes a price from vehicle age alone.  An
// unparsable year gives the floor price: with no listings and no age the
// conservative answer is the bottom of the plausible range.
func (r *Resolver) depreciationEstimate(yearStr string) Estimate {
	price := r.fallback.FloorPrice

	if year, ok := parseYear(yearStr); ok {
		age := r.now().Year() - year
		if age < 0 {
			age = 0
		}
		depreciated := int(float64(r.fallback.BasePrice) * math.Pow(r.fallback.DecayRate, float64(age)))
		if depreciated > price {
			price = depreciated
		}
	}

	return Estimate{
		Average:   price,
		Min:       price,
		Max:       price,
		Estimated: true,
		Source:    "depreciation",
	}
}

func parseYear(s string) (int, bool) {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1900 || y > 2100 {
		return 0, false
	}
	return y, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
