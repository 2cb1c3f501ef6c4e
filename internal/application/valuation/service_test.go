package valuation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcar-cl/tasador/internal/application/quota"
	"github.com/mrcar-cl/tasador/internal/domain/pricing"
	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test doubles
// ─────────────────────────────────────────────────────────────────────────────

type stubPlateProvider struct {
	name   string
	lookup vehicle.Lookup
	err    error
}

func (s *stubPlateProvider) Name() string { return s.name }

func (s *stubPlateProvider) LookupPlate(context.Context, string) (vehicle.Lookup, error) {
	return s.lookup, s.err
}

type stubPriceProvider struct {
	name  string
	quote pricing.Quote
	err   error
}

func (s *stubPriceProvider) Name() string { return s.name }

func (s *stubPriceProvider) QuotePrices(context.Context, pricing.Query) (pricing.Quote, error) {
	return s.quote, s.err
}

type stubCounter struct {
	count int64
	err   error
}

func (s *stubCounter) IncrementDay(context.Context, string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.count++
	return s.count, nil
}

func (s *stubCounter) GetDay(context.Context, string) (int64, error) {
	return s.count, s.err
}

func testBand() pricing.Band {
	return pricing.Band{Min: 1_500_000, Max: 100_000_000}
}

func newService(plateProviders []vehicle.Provider, priceProviders []pricing.Provider,
	counter quota.CounterStore, dailyLimit int) *Service {
	nop := logging.NewNopLogger()
	return NewService(
		vehicle.NewResolver(plateProviders, time.Second, nop),
		pricing.NewResolver(priceProviders, time.Second, testBand(), 2,
			pricing.FallbackParams{BasePrice: 8_000_000, DecayRate: 0.88, FloorPrice: 1_500_000}, nop),
		pricing.NewFormula(0.52, 100_000, 8_000_000, 0.045, 0.19, 428_400),
		quota.NewGate(counter, dailyLimit, nop),
		nop,
	)
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestValuateComputesOfferFromAverage(t *testing.T) {
	price := &stubPriceProvider{name: "gemini", quote: pricing.Quote{Candidates: []pricing.Candidate{
		{Amount: 9_000_000}, {Amount: 9_400_000}, {Amount: 8_800_000},
	}}}

	svc := newService(nil, []pricing.Provider{price}, &stubCounter{}, 100)

	res, err := svc.Valuate(context.Background(), pricing.Query{Make: "Toyota", Model: "Yaris", Year: "2019"})
	require.NoError(t, err)

	assert.Equal(t, 9_066_666, res.Estimate.Average)
	assert.Equal(t, 3, res.Estimate.NumListings)
	assert.True(t, res.Offer.Success)
	assert.Equal(t, 9_066_666, res.Offer.MarketPrice)
	assert.Equal(t, 4_700_000, res.Offer.ImmediateOffer)
	assert.Equal(t, "percentage", res.Offer.Tier)
	assert.Nil(t, res.Vehicle)
}

func TestValuateConsumesQuota(t *testing.T) {
	price := &stubPriceProvider{name: "gemini", quote: pricing.Quote{Candidates: []pricing.Candidate{{Amount: 5_000_000}}}}
	counter := &stubCounter{}

	svc := newService(nil, []pricing.Provider{price}, counter, 100)
	_, err := svc.Valuate(context.Background(), pricing.Query{Model: "Spark"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter.count)
}

func TestValuateRejectedWhenQuotaSpent(t *testing.T) {
	price := &stubPriceProvider{name: "gemini", quote: pricing.Quote{Candidates: []pricing.Candidate{{Amount: 5_000_000}}}}
	counter := &stubCounter{count: 2} // next increment lands at 3, over a limit of 2

	svc := newService(nil, []pricing.Provider{price}, counter, 2)
	_, err := svc.Valuate(context.Background(), pricing.Query{Model: "Spark"})
	require.Error(t, err)
	assert.True(t, errors.IsQuotaExceeded(err))
}

func TestValuateAdmittedWhenCounterDown(t *testing.T) {
	price := &stubPriceProvider{name: "gemini", quote: pricing.Quote{Candidates: []pricing.Candidate{{Amount: 5_000_000}}}}
	counter := &stubCounter{err: fmt.Errorf("redis: connection refused")}

	svc := newService(nil, []pricing.Provider{price}, counter, 2)
	res, err := svc.Valuate(context.Background(), pricing.Query{Model: "Spark"})
	require.NoError(t, err)
	assert.True(t, res.Offer.Success)
}

func TestValuateFallsBackToDepreciation(t *testing.T) {
	price := &stubPriceProvider{name: "gemini", err: fmt.Errorf("api down")}

	svc := newService(nil, []pricing.Provider{price}, &stubCounter{}, 100)
	res, err := svc.Valuate(context.Background(), pricing.Query{Model: "Charade", Year: "1998"})
	require.NoError(t, err)

	assert.True(t, res.Estimate.Estimated)
	assert.Equal(t, "depreciation", res.Estimate.Source)
	assert.True(t, res.Offer.Success)
}

func TestValuatePlate(t *testing.T) {
	plate := &stubPlateProvider{name: "registry", lookup: vehicle.Lookup{
		Found:   true,
		Vehicle: &vehicle.Record{Plate: "BBCL23", Make: "Toyota", Model: "Yaris", Year: "2019"},
		Source:  "registry",
	}}
	price := &stubPriceProvider{name: "gemini", quote: pricing.Quote{Candidates: []pricing.Candidate{{Amount: 8_990_000}}}}

	svc := newService([]vehicle.Provider{plate}, []pricing.Provider{price}, &stubCounter{}, 100)

	res, err := svc.ValuatePlate(context.Background(), "bbcl23", 85_000, "RM")
	require.NoError(t, err)

	require.NotNil(t, res.Vehicle)
	assert.Equal(t, "BBCL23", res.Vehicle.Plate)
	assert.Equal(t, 8_990_000, res.Estimate.Average)
	assert.True(t, res.Offer.Success)
}

func TestValuatePlateUnresolvedPlate(t *testing.T) {
	plate := &stubPlateProvider{name: "registry", lookup: vehicle.Lookup{Found: false, Reason: "no record"}}

	svc := newService([]vehicle.Provider{plate}, nil, &stubCounter{}, 100)

	_, err := svc.ValuatePlate(context.Background(), "ZZZZ99", 0, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePlateNotFound))
}

func TestResolvePlatePassThrough(t *testing.T) {
	plate := &stubPlateProvider{name: "registry", lookup: vehicle.Lookup{
		Found:   true,
		Vehicle: &vehicle.Record{Plate: "HJKL89", Make: "Chevrolet", Model: "Spark"},
		Source:  "registry",
	}}

	svc := newService([]vehicle.Provider{plate}, nil, &stubCounter{}, 100)
	got, err := svc.ResolvePlate(context.Background(), "hjkl89")
	require.NoError(t, err)
	assert.True(t, got.Found)
	assert.Equal(t, "Chevrolet", got.Vehicle.Make)
}

func TestQuotaUsage(t *testing.T) {
	svc := newService(nil, nil, &stubCounter{count: 4}, 10)
	used, remaining, err := svc.QuotaUsage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), used)
	assert.Equal(t, int64(6), remaining)
}
