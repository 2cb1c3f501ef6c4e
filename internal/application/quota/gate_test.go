package quota

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

type mockCounterStore struct {
	incrementFunc func(ctx context.Context, day string) (int64, error)
	getFunc       func(ctx context.Context, day string) (int64, error)
	lastDay       string
}

func (m *mockCounterStore) IncrementDay(ctx context.Context, day string) (int64, error) {
	m.lastDay = day
	return m.incrementFunc(ctx, day)
}

func (m *mockCounterStore) GetDay(ctx context.Context, day string) (int64, error) {
	m.lastDay = day
	return m.getFunc(ctx, day)
}

func TestAdmitUnderLimit(t *testing.T) {
	store := &mockCounterStore{incrementFunc: func(context.Context, string) (int64, error) {
		return 5, nil
	}}
	g := NewGate(store, 10, logging.NewNopLogger())

	assert.NoError(t, g.Admit(context.Background()))
}

func TestAdmitAtLimit(t *testing.T) {
	store := &mockCounterStore{incrementFunc: func(context.Context, string) (int64, error) {
		return 10, nil
	}}
	g := NewGate(store, 10, logging.NewNopLogger())

	assert.NoError(t, g.Admit(context.Background()), "the request that reaches the limit is still admitted")
}

func TestAdmitOverLimit(t *testing.T) {
	store := &mockCounterStore{incrementFunc: func(context.Context, string) (int64, error) {
		return 11, nil
	}}
	g := NewGate(store, 10, logging.NewNopLogger())

	err := g.Admit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsQuotaExceeded(err))
}

func TestAdmitFailsOpenOnStoreError(t *testing.T) {
	store := &mockCounterStore{incrementFunc: func(context.Context, string) (int64, error) {
		return 0, fmt.Errorf("redis: connection refused")
	}}
	g := NewGate(store, 10, logging.NewNopLogger())

	assert.NoError(t, g.Admit(context.Background()))
}

func TestAdmitZeroLimitDisablesGate(t *testing.T) {
	store := &mockCounterStore{incrementFunc: func(context.Context, string) (int64, error) {
		t.Fatal("store must not be consulted when the gate is disabled")
		return 0, nil
	}}
	g := NewGate(store, 0, logging.NewNopLogger())

	assert.NoError(t, g.Admit(context.Background()))
}

func TestAdmitUsesUTCDayBucket(t *testing.T) {
	store := &mockCounterStore{incrementFunc: func(context.Context, string) (int64, error) {
		return 1, nil
	}}
	g := NewGate(store, 10, logging.NewNopLogger())
	g.now = func() time.Time {
		loc := time.FixedZone("CLT", -4*3600)
		return time.Date(2026, 3, 15, 22, 30, 0, 0, loc) // 02:30 next day UTC
	}

	require.NoError(t, g.Admit(context.Background()))
	assert.Equal(t, "2026-03-16", store.lastDay)
}

func TestUsage(t *testing.T) {
	store := &mockCounterStore{getFunc: func(context.Context, string) (int64, error) {
		return 7, nil
	}}
	g := NewGate(store, 10, logging.NewNopLogger())

	used, remaining, err := g.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), used)
	assert.Equal(t, int64(3), remaining)
}

func TestUsageRemainingNeverNegative(t *testing.T) {
	store := &mockCounterStore{getFunc: func(context.Context, string) (int64, error) {
		return 25, nil
	}}
	g := NewGate(store, 10, logging.NewNopLogger())

	used, remaining, err := g.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(25), used)
	assert.Zero(t, remaining)
}

func TestUsageDisabledGate(t *testing.T) {
	g := NewGate(nil, 0, logging.NewNopLogger())

	used, remaining, err := g.Usage(context.Background())
	require.NoError(t, err)
	assert.Zero(t, used)
	assert.Zero(t, remaining)
}

func TestUsageStoreError(t *testing.T) {
	store := &mockCounterStore{getFunc: func(context.Context, string) (int64, error) {
		return 0, fmt.Errorf("redis down")
	}}
	g := NewGate(store, 10, logging.NewNopLogger())

	_, _, err := g.Usage(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheError))
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2026-01-05",
		DayKey(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)))
}
