package main

import (
	"context"
	"fmt"

	"github.com/mrcar-cl/tasador/internal/application/quota"
	"github.com/mrcar-cl/tasador/internal/application/valuation"
	"github.com/mrcar-cl/tasador/internal/config"
	"github.com/mrcar-cl/tasador/internal/domain/pricing"
	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/internal/infrastructure/database/postgres"
	"github.com/mrcar-cl/tasador/internal/infrastructure/database/redis"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/prometheus"
	"github.com/mrcar-cl/tasador/internal/infrastructure/providers/browser"
	"github.com/mrcar-cl/tasador/internal/infrastructure/providers/gemini"
	"github.com/mrcar-cl/tasador/internal/infrastructure/providers/registry"
	"github.com/mrcar-cl/tasador/internal/interfaces/http/handlers"
)

// appAssembly holds the wired service plus everything that must be released
// on shutdown.
type appAssembly struct {
	service handlers.ValuationService
	checks  []handlers.Check
	closers []func() error
	logger  logging.Logger
}

// close releases infrastructure in reverse construction order.
func (a *appAssembly) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close dependency", logging.Err(err))
		}
	}
}

// assemble constructs every provider named in the config and wires the
// valuation service.  Providers whose backing service is not configured are
// skipped with a warning; a provider list that ends up empty is an error
// only for plates, since market pricing can fall back to depreciation.
func assemble(ctx context.Context, cfg *config.Config, logger logging.Logger,
	metrics *prometheus.AppMetrics) (*appAssembly, error) {

	a := &appAssembly{logger: logger}
	band := pricing.Band{Min: cfg.Market.MinPrice, Max: cfg.Market.MaxPrice}

	var (
		pg      *postgres.Connection
		session *browser.Session
		ai      *gemini.Client
	)

	getPostgres := func() (*postgres.Connection, error) {
		if pg != nil {
			return pg, nil
		}
		conn, err := postgres.NewConnection(cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		pg = conn
		a.closers = append(a.closers, conn.Close)
		a.checks = append(a.checks, handlers.Check{Name: "postgres", Fn: conn.HealthCheck})
		return conn, nil
	}

	getBrowser := func() (*browser.Session, error) {
		if session != nil {
			return session, nil
		}
		s, err := browser.NewSession(browser.Options{
			Headless:    cfg.Browser.Headless,
			BinPath:     cfg.Browser.BinPath,
			UserAgent:   cfg.Browser.UserAgent,
			PageTimeout: cfg.Browser.PageTimeout,
			SettleDelay: cfg.Browser.SettleDelay,
		}, logger)
		if err != nil {
			return nil, err
		}
		session = s
		a.closers = append(a.closers, s.Close)
		return s, nil
	}

	getGemini := func() (*gemini.Client, error) {
		if ai != nil {
			return ai, nil
		}
		client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model,
			cfg.Gemini.Timeout, logger)
		if err != nil {
			return nil, err
		}
		ai = client
		return client, nil
	}

	// Plate providers, in trust order.
	var plateProviders []vehicle.Provider
	for _, name := range cfg.Plate.Providers {
		var p vehicle.Provider
		switch name {
		case "registry":
			conn, err := getPostgres()
			if err != nil {
				return nil, fmt.Errorf("plate provider %q: %w", name, err)
			}
			repo := postgres.NewVehicleRepo(conn, logger)
			if size, err := repo.Count(ctx); err == nil {
				metrics.RosterSize.Set(float64(size))
			}
			p = registry.NewProvider(repo)
		case "memory":
			store := registry.NewMemoryStore()
			importer := registry.NewImporter(store, logger)
			imported, err := importer.ImportDir(ctx, cfg.Plate.RosterDir)
			if err != nil {
				return nil, fmt.Errorf("plate provider %q: %w", name, err)
			}
			metrics.ObserveRosterImport(imported, int64(store.Len()))
			p = registry.NewProvider(store)
		case "gemini":
			if cfg.Gemini.APIKey == "" {
				logger.Warn("skipping gemini plate provider: no API key configured")
				continue
			}
			client, err := getGemini()
			if err != nil {
				return nil, fmt.Errorf("plate provider %q: %w", name, err)
			}
			p = gemini.NewPlateProvider(client)
		case "patentechile":
			s, err := getBrowser()
			if err != nil {
				return nil, fmt.Errorf("plate provider %q: %w", name, err)
			}
			p = browser.NewPatenteChileProvider(s)
		default:
			return nil, fmt.Errorf("unknown plate provider %q", name)
		}
		plateProviders = append(plateProviders, prometheus.InstrumentPlateProvider(p, metrics))
	}
	if len(plateProviders) == 0 {
		return nil, fmt.Errorf("no plate providers available")
	}

	// Market price providers.
	var priceProviders []pricing.Provider
	for _, name := range cfg.Market.Providers {
		var p pricing.Provider
		switch name {
		case "gemini":
			if cfg.Gemini.APIKey == "" {
				logger.Warn("skipping gemini price provider: no API key configured")
				continue
			}
			client, err := getGemini()
			if err != nil {
				return nil, fmt.Errorf("price provider %q: %w", name, err)
			}
			p = gemini.NewValuationProvider(client)
		case "autofact":
			s, err := getBrowser()
			if err != nil {
				return nil, fmt.Errorf("price provider %q: %w", name, err)
			}
			p = browser.NewAutofactProvider(s, band)
		case "mercadolibre":
			s, err := getBrowser()
			if err != nil {
				return nil, fmt.Errorf("price provider %q: %w", name, err)
			}
			p = browser.NewMercadoLibreProvider(s, band)
		case "chileautos":
			s, err := getBrowser()
			if err != nil {
				return nil, fmt.Errorf("price provider %q: %w", name, err)
			}
			p = browser.NewChileAutosProvider(s, band)
		default:
			return nil, fmt.Errorf("unknown price provider %q", name)
		}
		priceProviders = append(priceProviders, prometheus.InstrumentPriceProvider(p, metrics))
	}

	plates := vehicle.NewResolver(plateProviders, cfg.Plate.ProviderTimeout, logger)
	prices := pricing.NewResolver(priceProviders, cfg.Market.ProviderTimeout, band,
		cfg.Market.YearTolerance, pricing.FallbackParams{
			BasePrice:  cfg.Market.BasePrice,
			DecayRate:  cfg.Market.DecayRate,
			FloorPrice: cfg.Market.FloorPrice,
		}, logger)

	formula := pricing.NewFormula(cfg.Pricing.PurchaseMultiplier, cfg.Pricing.RoundingStep,
		cfg.Pricing.ConsignmentThreshold, cfg.Pricing.CommissionRate,
		cfg.Pricing.TaxRate, cfg.Pricing.FixedFee)

	var gate valuation.Gate = quota.NewGate(nil, 0, logger)
	if cfg.Quota.DailyLimit > 0 {
		rdb, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("quota gate: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		a.checks = append(a.checks, handlers.Check{Name: "redis", Fn: rdb.HealthCheck})
		gate = quota.NewGate(redis.NewCounterStore(rdb, cfg.Redis.KeyPrefix),
			cfg.Quota.DailyLimit, logger)
	}
	gate = prometheus.InstrumentQuotaGate(gate, metrics)

	svc := valuation.NewService(plates, prices, formula, gate, logger)
	a.service = prometheus.InstrumentValuationService(svc, metrics)
	return a, nil
}
