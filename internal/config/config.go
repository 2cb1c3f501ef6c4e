// Package config defines all configuration structures for the tasador
// valuation service.  No I/O or parsing logic lives here, only plain data
// types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the vehicle
// registry.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters for the quota counter store.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// PlateConfig holds plate-resolution parameters.  Providers are attempted in
// the listed order; the order encodes a trust ranking.
type PlateConfig struct {
	// Providers is the priority-ordered list of plate providers to try.
	// Known names: "registry", "memory", "gemini", "patentechile".
	Providers []string `mapstructure:"providers"`

	// ProviderTimeout bounds each individual provider attempt.
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`

	// RosterDir is the directory of roster CSV exports loaded at startup by
	// the "memory" provider, which serves plates without a PostgreSQL
	// database.  Required when that provider is listed.
	RosterDir string `mapstructure:"roster_dir"`
}

// MarketConfig holds market-price resolution parameters.
type MarketConfig struct {
	// Providers is the priority-ordered list of price providers to try.
	// Known names: "gemini", "autofact", "mercadolibre", "chileautos".
	Providers []string `mapstructure:"providers"`

	// ProviderTimeout bounds each individual provider attempt.
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`

	// MinPrice/MaxPrice delimit the plausibility band in CLP: amounts
	// outside it are treated as page noise, not prices.
	MinPrice int `mapstructure:"min_price"`
	MaxPrice int `mapstructure:"max_price"`

	// YearTolerance is how many years a year-tagged listing may deviate
	// from the target year and still count.
	YearTolerance int `mapstructure:"year_tolerance"`

	// Depreciation fallback parameters, applied when no provider yields a
	// plausible price: max(FloorPrice, BasePrice * DecayRate^age).
	BasePrice  int     `mapstructure:"base_price"`
	DecayRate  float64 `mapstructure:"decay_rate"`
	FloorPrice int     `mapstructure:"floor_price"`
}

// PricingConfig holds the commercial-offer formula constants.  The values
// encode one specific market (CLP); change them only with domain guidance.
type PricingConfig struct {
	// PurchaseMultiplier is the fraction of market price offered for an
	// immediate purchase.
	PurchaseMultiplier float64 `mapstructure:"purchase_multiplier"`

	// RoundingStep is the step the immediate offer is rounded to.
	RoundingStep int `mapstructure:"rounding_step"`

	// ConsignmentThreshold selects the commission tier: above it the
	// percentage commission applies, at or below it the fixed fee.
	ConsignmentThreshold int `mapstructure:"consignment_threshold"`

	// CommissionRate is the consignment commission for the percentage tier.
	CommissionRate float64 `mapstructure:"commission_rate"`

	// TaxRate is the VAT applied on top of the commission.
	TaxRate float64 `mapstructure:"tax_rate"`

	// FixedFee is the flat consignment fee for the low tier.
	FixedFee int `mapstructure:"fixed_fee"`
}

// QuotaConfig holds the daily valuation budget.
type QuotaConfig struct {
	// DailyLimit is the maximum number of priced valuations per calendar
	// day.  Zero disables the gate.
	DailyLimit int `mapstructure:"daily_limit"`
}

// GeminiConfig holds parameters for the AI-grounded provider.
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BrowserConfig holds parameters for the rod-driven providers.
type BrowserConfig struct {
	Headless    bool          `mapstructure:"headless"`
	BinPath     string        `mapstructure:"bin_path"`
	UserAgent   string        `mapstructure:"user_agent"`
	PageTimeout time.Duration `mapstructure:"page_timeout"`

	// SettleDelay is how long to wait after navigation for client-side
	// rendering before reading the page.
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the whole service.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Plate    PlateConfig    `mapstructure:"plate"`
	Market   MarketConfig   `mapstructure:"market"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Quota    QuotaConfig    `mapstructure:"quota"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Log      LogConfig      `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if len(c.Plate.Providers) == 0 {
		return fmt.Errorf("config: plate.providers must list at least one provider")
	}
	if c.Plate.ProviderTimeout <= 0 {
		return fmt.Errorf("config: plate.provider_timeout must be positive")
	}
	for _, p := range c.Plate.Providers {
		if p == "memory" && c.Plate.RosterDir == "" {
			return fmt.Errorf("config: plate.roster_dir is required by the memory provider")
		}
	}

	if len(c.Market.Providers) == 0 {
		return fmt.Errorf("config: market.providers must list at least one provider")
	}
	if c.Market.ProviderTimeout <= 0 {
		return fmt.Errorf("config: market.provider_timeout must be positive")
	}
	if c.Market.MinPrice <= 0 || c.Market.MaxPrice <= c.Market.MinPrice {
		return fmt.Errorf("config: market price band [%d, %d] is not a valid range",
			c.Market.MinPrice, c.Market.MaxPrice)
	}
	if c.Market.YearTolerance < 0 {
		return fmt.Errorf("config: market.year_tolerance must be >= 0, got %d", c.Market.YearTolerance)
	}
	if c.Market.DecayRate <= 0 || c.Market.DecayRate >= 1 {
		return fmt.Errorf("config: market.decay_rate %v must be in (0, 1)", c.Market.DecayRate)
	}
	if c.Market.BasePrice <= 0 || c.Market.FloorPrice <= 0 {
		return fmt.Errorf("config: market.base_price and market.floor_price must be positive")
	}

	if c.Pricing.PurchaseMultiplier <= 0 || c.Pricing.PurchaseMultiplier >= 1 {
		return fmt.Errorf("config: pricing.purchase_multiplier %v must be in (0, 1)",
			c.Pricing.PurchaseMultiplier)
	}
	if c.Pricing.RoundingStep <= 0 {
		return fmt.Errorf("config: pricing.rounding_step must be positive")
	}
	if c.Pricing.ConsignmentThreshold <= 0 {
		return fmt.Errorf("config: pricing.consignment_threshold must be positive")
	}
	if c.Pricing.CommissionRate <= 0 || c.Pricing.CommissionRate >= 1 {
		return fmt.Errorf("config: pricing.commission_rate %v must be in (0, 1)", c.Pricing.CommissionRate)
	}
	if c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1 {
		return fmt.Errorf("config: pricing.tax_rate %v must be in [0, 1)", c.Pricing.TaxRate)
	}
	if c.Pricing.FixedFee < 0 {
		return fmt.Errorf("config: pricing.fixed_fee must be >= 0, got %d", c.Pricing.FixedFee)
	}

	if c.Quota.DailyLimit < 0 {
		return fmt.Errorf("config: quota.daily_limit must be >= 0, got %d", c.Quota.DailyLimit)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
