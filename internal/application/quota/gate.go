// Package quota enforces the daily valuation budget.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// CounterStore persists the per-day request counter.  IncrementDay bumps the
// counter for the given calendar day and returns the new value.
type CounterStore interface {
	IncrementDay(ctx context.Context, day string) (int64, error)
	GetDay(ctx context.Context, day string) (int64, error)
}

// Gate admits or rejects valuation requests against a daily limit.
//
// The counter is incremented first and compared after, so two concurrent
// requests near the limit may both be admitted.  That slack is accepted: the
// limit protects spend on paid upstreams, it is not a hard contract.
type Gate struct {
	store  CounterStore
	limit  int64
	logger logging.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewGate builds a Gate.  A limit of zero disables enforcement entirely.
func NewGate(store CounterStore, dailyLimit int, logger logging.Logger) *Gate {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Gate{
		store:  store,
		limit:  int64(dailyLimit),
		logger: logger.Named("quota"),
		now:    time.Now,
	}
}

// DayKey formats t as the calendar-day bucket the counter is kept under.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Admit consumes one unit of today's budget.  Over-limit requests are
// rejected with a quota error.  A failing counter store admits the request:
// losing quota accounting must not take the product down with it.
func (g *Gate) Admit(ctx context.Context) error {
	if g.limit <= 0 {
		return nil
	}

	day := DayKey(g.now())
	count, err := g.store.IncrementDay(ctx, day)
	if err != nil {
		g.logger.Warn("quota counter unavailable; admitting request",
			logging.String("day", day),
			logging.Err(err))
		return nil
	}

	if count > g.limit {
		g.logger.Info("daily quota exhausted",
			logging.String("day", day),
			logging.Int64("count", count),
			logging.Int64("limit", g.limit))
		return errors.QuotaExceeded(
			fmt.Sprintf("daily valuation limit of %d reached", g.limit))
	}

	return nil
}

// Usage reports how much of today's budget is consumed.  Remaining never
// goes negative.
func (g *Gate) Usage(ctx context.Context) (used, remaining int64, err error) {
	if g.limit <= 0 {
		return 0, 0, nil
	}

	day := DayKey(g.now())
	used, err = g.store.GetDay(ctx, day)
	if err != nil {
		return 0, 0, errors.Wrap(err, errors.ErrCodeCacheError, "read quota counter")
	}
	remaining = g.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return used, remaining, nil
}
