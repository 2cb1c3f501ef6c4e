package vehicle

import (
	"context"
	"fmt"
	"time"

	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// Provider answers plate lookups from one source (registry database, AI
// search, web scrape).  A nil-error Lookup with Found=false means the source
// answered authoritatively that it does not know the plate.
type Provider interface {
	// Name identifies the provider in logs and in Lookup.Source.
	Name() string

	// LookupPlate resolves a normalized plate.  The error return is for
	// transport and parse failures only, never for "plate unknown".
	LookupPlate(ctx context.Context, plate string) (Lookup, error)
}

// Resolver walks an ordered provider chain until one identifies the plate.
type Resolver struct {
	providers []Provider
	timeout   time.Duration
	logger    logging.Logger
}

// NewResolver builds a Resolver over the given providers.  Order is
// significant: earlier providers are more trusted and are consulted first.
func NewResolver(providers []Provider, timeout time.Duration, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{providers: providers, timeout: timeout, logger: logger.Named("plate-resolver")}
}

// Resolve normalizes the plate and consults providers in order.  The first
// provider that identifies the vehicle wins and its record is returned
// verbatim, without cross-provider merging.  When every provider either
// fails or misses, the returned Lookup carries Found=false and the reason
// from the last provider consulted, whether it missed or failed.
func (r *Resolver) Resolve(ctx context.Context, rawPlate string) (Lookup, error) {
	plate := NormalizePlate(rawPlate)
	if plate == "" {
		return Lookup{}, errors.InvalidParam("plate must not be empty")
	}
	if len(r.providers) == 0 {
		return Lookup{}, errors.New(errors.ErrCodeInternal, "no plate providers configured")
	}

	lastReason := "plate not found in any source"

	for _, p := range r.providers {
		attempt, err := r.lookupOne(ctx, p, plate)
		if err != nil {
			if ctx.Err() != nil {
				return Lookup{}, errors.Wrap(err, errors.ErrCodeTimeout, "plate resolution canceled")
			}
			r.logger.Warn("plate provider failed",
				logging.String("provider", p.Name()),
				logging.String("plate", plate),
				logging.Err(err))
			lastReason = fmt.Sprintf("%s lookup failed: %v", p.Name(), err)
			continue
		}

		if attempt.Found {
			if attempt.Source == "" {
				attempt.Source = p.Name()
			}
			r.logger.Info("plate resolved",
				logging.String("provider", attempt.Source),
				logging.String("plate", plate))
			return attempt, nil
		}

		if attempt.Reason != "" {
			lastReason = attempt.Reason
		}
	}

	return Lookup{Found: false, Reason: lastReason}, nil
}

func (r *Resolver) lookupOne(ctx context.Context, p Provider, plate string) (Lookup, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return p.LookupPlate(ctx, plate)
}
