package prometheus

import (
	"context"
	"time"

	"github.com/mrcar-cl/tasador/internal/application/valuation"
	"github.com/mrcar-cl/tasador/internal/domain/pricing"
	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

const (
	kindPlate = "plate"
	kindPrice = "price"
)

// InstrumentPlateProvider wraps a plate provider so every lookup is
// counted and timed under the provider's own name.
func InstrumentPlateProvider(p vehicle.Provider, m *AppMetrics) vehicle.Provider {
	return &plateInstrument{next: p, metrics: m}
}

type plateInstrument struct {
	next    vehicle.Provider
	metrics *AppMetrics
}

func (p *plateInstrument) Name() string { return p.next.Name() }

func (p *plateInstrument) LookupPlate(ctx context.Context, plate string) (vehicle.Lookup, error) {
	start := time.Now()
	lookup, err := p.next.LookupPlate(ctx, plate)
	p.metrics.ProviderDuration.WithLabelValues(kindPlate, p.next.Name()).Observe(time.Since(start).Seconds())

	outcome := "found"
	switch {
	case err != nil:
		outcome = "error"
	case !lookup.Found:
		outcome = "miss"
	}
	p.metrics.ProviderAttemptsTotal.WithLabelValues(kindPlate, p.next.Name(), outcome).Inc()
	return lookup, err
}

// InstrumentPriceProvider wraps a market price provider the same way.
func InstrumentPriceProvider(p pricing.Provider, m *AppMetrics) pricing.Provider {
	return &priceInstrument{next: p, metrics: m}
}

type priceInstrument struct {
	next    pricing.Provider
	metrics *AppMetrics
}

func (p *priceInstrument) Name() string { return p.next.Name() }

func (p *priceInstrument) QuotePrices(ctx context.Context, q pricing.Query) (pricing.Quote, error) {
	start := time.Now()
	quote, err := p.next.QuotePrices(ctx, q)
	p.metrics.ProviderDuration.WithLabelValues(kindPrice, p.next.Name()).Observe(time.Since(start).Seconds())

	outcome := "quoted"
	switch {
	case err != nil:
		outcome = "error"
	case len(quote.Candidates) == 0:
		outcome = "empty"
	}
	p.metrics.ProviderAttemptsTotal.WithLabelValues(kindPrice, p.next.Name(), outcome).Inc()
	return quote, err
}

// InstrumentQuotaGate wraps a quota gate so admissions and rejections are
// counted.
func InstrumentQuotaGate(g valuation.Gate, m *AppMetrics) valuation.Gate {
	return &gateInstrument{next: g, metrics: m}
}

type gateInstrument struct {
	next    valuation.Gate
	metrics *AppMetrics
}

func (g *gateInstrument) Admit(ctx context.Context) error {
	err := g.next.Admit(ctx)
	switch {
	case err == nil:
		g.metrics.QuotaAdmittedTotal.Inc()
	case errors.IsQuotaExceeded(err):
		g.metrics.QuotaRejectedTotal.Inc()
	}
	return err
}

func (g *gateInstrument) Usage(ctx context.Context) (used, remaining int64, err error) {
	return g.next.Usage(ctx)
}

// ValuationService is the application surface the HTTP handlers consume.
type ValuationService interface {
	ResolvePlate(ctx context.Context, plate string) (vehicle.Lookup, error)
	Valuate(ctx context.Context, q pricing.Query) (valuation.Result, error)
	ValuatePlate(ctx context.Context, plate string, mileage int, region string) (valuation.Result, error)
	QuotaUsage(ctx context.Context) (used, remaining int64, err error)
}

// InstrumentValuationService wraps the valuation service so completed
// valuations are counted under the market source that priced them.
func InstrumentValuationService(s ValuationService, m *AppMetrics) ValuationService {
	return &serviceInstrument{next: s, metrics: m}
}

type serviceInstrument struct {
	next    ValuationService
	metrics *AppMetrics
}

func (s *serviceInstrument) ResolvePlate(ctx context.Context, plate string) (vehicle.Lookup, error) {
	return s.next.ResolvePlate(ctx, plate)
}

func (s *serviceInstrument) Valuate(ctx context.Context, q pricing.Query) (valuation.Result, error) {
	res, err := s.next.Valuate(ctx, q)
	if err == nil {
		s.metrics.ValuationsTotal.WithLabelValues(res.Estimate.Source).Inc()
	}
	return res, err
}

func (s *serviceInstrument) ValuatePlate(ctx context.Context, plate string, mileage int, region string) (valuation.Result, error) {
	res, err := s.next.ValuatePlate(ctx, plate, mileage, region)
	if err == nil {
		s.metrics.ValuationsTotal.WithLabelValues(res.Estimate.Source).Inc()
	}
	return res, err
}

func (s *serviceInstrument) QuotaUsage(ctx context.Context) (used, remaining int64, err error) {
	return s.next.QuotaUsage(ctx)
}
