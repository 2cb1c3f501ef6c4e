package cli

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
	"github.com/mrcar-cl/tasador/internal/infrastructure/providers/browser"
	"github.com/mrcar-cl/tasador/internal/infrastructure/providers/gemini"
	"github.com/mrcar-cl/tasador/internal/infrastructure/providers/registry"
)

// appDeps lazily constructs the infrastructure a command needs, so that
// `tasador resolve` does not demand a Redis and `tasador import` does not
// launch a browser.
type appDeps struct {
	cfg    *config.Config
	logger logging.Logger

	pg      *postgres.Connection
	session *browser.Session
	ai      *gemini.Client
	rdb     *redis.Client

	closers []func() error
}

func newAppDeps(cliCtx *CLIContext) *appDeps {
	return &appDeps{cfg: cliCtx.Config, logger: cliCtx.Logger}
}

// Close releases everything that was actually built, in reverse order.
func (d *appDeps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.logger.Warn("close dependency", logging.Err(err))
		}
	}
}

func (d *appDeps) postgres() (*postgres.Connection, error) {
	if d.pg != nil {
		return d.pg, nil
	}
	conn, err := postgres.NewConnection(d.cfg.Database, d.logger)
	if err != nil {
		return nil, err
	}
	d.pg = conn
	d.closers = append(d.closers, conn.Close)
	return conn, nil
}

func (d *appDeps) browser() (*browser.Session, error) {
	if d.session != nil {
		return d.session, nil
	}
	session, err := browser.NewSession(browser.Options{
		Headless:    d.cfg.Browser.Headless,
		BinPath:     d.cfg.Browser.BinPath,
		UserAgent:   d.cfg.Browser.UserAgent,
		PageTimeout: d.cfg.Browser.PageTimeout,
		SettleDelay: d.cfg.Browser.SettleDelay,
	}, d.logger)
	if err != nil {
		return nil, err
	}
	d.session = session
	d.closers = append(d.closers, session.Close)
	return session, nil
}

func (d *appDeps) geminiClient(ctx context.Context) (*gemini.Client, error) {
	if d.ai != nil {
		return d.ai, nil
	}
	client, err := gemini.NewClient(ctx, d.cfg.Gemini.APIKey, d.cfg.Gemini.Model,
		d.cfg.Gemini.Timeout, d.logger)
	if err != nil {
		return nil, err
	}
	d.ai = client
	return client, nil
}

func (d *appDeps) redis() (*redis.Client, error) {
	if d.rdb != nil {
		return d.rdb, nil
	}
	client, err := redis.NewClient(d.cfg.Redis, d.logger)
	if err != nil {
		return nil, err
	}
	d.rdb = client
	d.closers = append(d.closers, client.Close)
	return client, nil
}

func (d *appDeps) band() pricing.Band {
	return pricing.Band{Min: d.cfg.Market.MinPrice, Max: d.cfg.Market.MaxPrice}
}

// buildPlateResolver assembles the plate providers named in the config, in
// order.  Providers whose backing service is not configured are skipped
// with a warning rather than failing the whole command.
func (d *appDeps) buildPlateResolver(ctx context.Context) (*vehicle.Resolver, error) {
	var providers []vehicle.Provider

	for _, name := range d.cfg.Plate.Providers {
		switch name {
		case "registry":
			conn, err := d.postgres()
			if err != nil {
				return nil, fmt.Errorf("plate provider %q: %w", name, err)
			}
			providers = append(providers, registry.NewProvider(postgres.NewVehicleRepo(conn, d.logger)))
		case "memory":
			store := registry.NewMemoryStore()
			importer := registry.NewImporter(store, d.logger)
			if _, err := importer.ImportDir(ctx, d.cfg.Plate.RosterDir); err != nil {
				return nil, fmt.Errorf("plate provider %q: %w", name, err)
			}
			providers = append(providers, registry.NewProvider(store))
		case "gemini":
			if d.cfg.Gemini.APIKey == "" {
				d.logger.Warn("skipping gemini plate provider: no API key configured")
				continue
			}
			client, err := d.geminiClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("plate provider %q: %w", name, err)
			}
			providers = append(providers, gemini.NewPlateProvider(client))
		case "patentechile":
			session, err := d.browser()
			if err != nil {
				return nil, fmt.Errorf("plate provider %q: %w", name, err)
			}
			providers = append(providers, browser.NewPatenteChileProvider(session))
		default:
			return nil, fmt.Errorf("unknown plate provider %q", name)
		}
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no plate providers available")
	}
	return vehicle.NewResolver(providers, d.cfg.Plate.ProviderTimeout, d.logger), nil
}

// buildPriceResolver assembles the market price providers named in config.
func (d *appDeps) buildPriceResolver(ctx context.Context) (*pricing.Resolver, error) {
	var providers []pricing.Provider

	for _, name := range d.cfg.Market.Providers {
		switch name {
		case "gemini":
			if d.cfg.Gemini.APIKey == "" {
				d.logger.Warn("skipping gemini price provider: no API key configured")
				continue
			}
			client, err := d.geminiClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("price provider %q: %w", name, err)
			}
			providers = append(providers, gemini.NewValuationProvider(client))
		case "autofact":
			session, err := d.browser()
			if err != nil {
				return nil, fmt.Errorf("price provider %q: %w", name, err)
			}
			providers = append(providers, browser.NewAutofactProvider(session, d.band()))
		case "mercadolibre":
			session, err := d.browser()
			if err != nil {
				return nil, fmt.Errorf("price provider %q: %w", name, err)
			}
			providers = append(providers, browser.NewMercadoLibreProvider(session, d.band()))
		case "chileautos":
			session, err := d.browser()
			if err != nil {
				return nil, fmt.Errorf("price provider %q: %w", name, err)
			}
			providers = append(providers, browser.NewChileAutosProvider(session, d.band()))
		default:
			return nil, fmt.Errorf("unknown price provider %q", name)
		}
	}

	return pricing.NewResolver(providers, d.cfg.Market.ProviderTimeout, d.band(),
		d.cfg.Market.YearTolerance, pricing.FallbackParams{
			BasePrice:  d.cfg.Market.BasePrice,
			DecayRate:  d.cfg.Market.DecayRate,
			FloorPrice: d.cfg.Market.FloorPrice,
		}, d.logger), nil
}

func (d *appDeps) buildFormula() *pricing.Formula {
	p := d.cfg.Pricing
	return pricing.NewFormula(p.PurchaseMultiplier, p.RoundingStep, p.ConsignmentThreshold,
		p.CommissionRate, p.TaxRate, p.FixedFee)
}

func (d *appDeps) buildGate() (*quota.Gate, error) {
	if d.cfg.Quota.DailyLimit <= 0 {
		return quota.NewGate(nil, 0, d.logger), nil
	}
	client, err := d.redis()
	if err != nil {
		return nil, fmt.Errorf("quota gate: %w", err)
	}
	return quota.NewGate(redis.NewCounterStore(client, d.cfg.Redis.KeyPrefix),
		d.cfg.Quota.DailyLimit, d.logger), nil
}

// buildService wires the full valuation service.
func (d *appDeps) buildService(ctx context.Context) (*valuation.Service, error) {
	plates, err := d.buildPlateResolver(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := d.buildPriceResolver(ctx)
	if err != nil {
		return nil, err
	}
	gate, err := d.buildGate()
	if err != nil {
		return nil, err
	}
	return valuation.NewService(plates, prices, d.buildFormula(), gate, d.logger), nil
}
