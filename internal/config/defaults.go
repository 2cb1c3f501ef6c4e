package config

import "time"

// Default values applied when a key is absent from both the config file and
// the environment.  Pricing and market defaults encode the CLP used-car
// market the service was built for.
const (
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 60 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultDatabaseHost          = "localhost"
	DefaultDatabasePort          = 5432
	DefaultDatabaseUser          = "tasador"
	DefaultDatabaseName          = "tasador"
	DefaultDatabaseSSLMode       = "disable"
	DefaultDatabaseMaxConns      = 10
	DefaultDatabaseMinConns      = 2
	DefaultDatabaseConnLifetime  = time.Hour
	DefaultDatabaseMigrationPath = "migrations"

	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 10
	DefaultRedisMinIdleConns = 2
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisKeyPrefix    = "tasador"

	DefaultPlateProviderTimeout = 45 * time.Second

	DefaultMarketProviderTimeout = 90 * time.Second
	DefaultMarketMinPrice        = 1_500_000
	DefaultMarketMaxPrice        = 100_000_000
	DefaultMarketYearTolerance   = 2
	DefaultMarketBasePrice       = 8_000_000
	DefaultMarketDecayRate       = 0.88
	DefaultMarketFloorPrice      = 1_500_000

	DefaultPricingPurchaseMultiplier   = 0.52
	DefaultPricingRoundingStep         = 100_000
	DefaultPricingConsignmentThreshold = 8_000_000
	DefaultPricingCommissionRate       = 0.045
	DefaultPricingTaxRate              = 0.19
	DefaultPricingFixedFee             = 428_400

	DefaultQuotaDailyLimit = 1000

	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultGeminiTimeout = 60 * time.Second

	DefaultBrowserHeadless    = true
	DefaultBrowserPageTimeout = 30 * time.Second
	DefaultBrowserSettleDelay = 3 * time.Second
	DefaultBrowserUserAgent   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultPlateProviders is the trust-ordered plate provider chain.
func DefaultPlateProviders() []string {
	return []string{"registry", "gemini", "patentechile"}
}

// DefaultMarketProviders is the trust-ordered price provider chain.
func DefaultMarketProviders() []string {
	return []string{"gemini", "autofact", "mercadolibre", "chileautos"}
}

// ApplyDefaults fills every zero-valued field of cfg with its default.
// Explicitly configured zero values for numeric knobs that have non-zero
// defaults cannot be distinguished from "absent"; use the config file to set
// such values to their minimum legal value instead.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDatabaseHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDatabasePort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDatabaseUser
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDatabaseName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDatabaseSSLMode
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDatabaseMaxConns
	}
	if cfg.Database.MinConns == 0 {
		cfg.Database.MinConns = DefaultDatabaseMinConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = DefaultDatabaseConnLifetime
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = DefaultDatabaseMigrationPath
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.MinIdleConns == 0 {
		cfg.Redis.MinIdleConns = DefaultRedisMinIdleConns
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisDialTimeout
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = DefaultRedisReadTimeout
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = DefaultRedisWriteTimeout
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	if len(cfg.Plate.Providers) == 0 {
		cfg.Plate.Providers = DefaultPlateProviders()
	}
	if cfg.Plate.ProviderTimeout == 0 {
		cfg.Plate.ProviderTimeout = DefaultPlateProviderTimeout
	}

	if len(cfg.Market.Providers) == 0 {
		cfg.Market.Providers = DefaultMarketProviders()
	}
	if cfg.Market.ProviderTimeout == 0 {
		cfg.Market.ProviderTimeout = DefaultMarketProviderTimeout
	}
	if cfg.Market.MinPrice == 0 {
		cfg.Market.MinPrice = DefaultMarketMinPrice
	}
	if cfg.Market.MaxPrice == 0 {
		cfg.Market.MaxPrice = DefaultMarketMaxPrice
	}
	if cfg.Market.YearTolerance == 0 {
		cfg.Market.YearTolerance = DefaultMarketYearTolerance
	}
	if cfg.Market.BasePrice == 0 {
		cfg.Market.BasePrice = DefaultMarketBasePrice
	}
	if cfg.Market.DecayRate == 0 {
		cfg.Market.DecayRate = DefaultMarketDecayRate
	}
	if cfg.Market.FloorPrice == 0 {
		cfg.Market.FloorPrice = DefaultMarketFloorPrice
	}

	if cfg.Pricing.PurchaseMultiplier == 0 {
		cfg.Pricing.PurchaseMultiplier = DefaultPricingPurchaseMultiplier
	}
	if cfg.Pricing.RoundingStep == 0 {
		cfg.Pricing.RoundingStep = DefaultPricingRoundingStep
	}
	if cfg.Pricing.ConsignmentThreshold == 0 {
		cfg.Pricing.ConsignmentThreshold = DefaultPricingConsignmentThreshold
	}
	if cfg.Pricing.CommissionRate == 0 {
		cfg.Pricing.CommissionRate = DefaultPricingCommissionRate
	}
	if cfg.Pricing.TaxRate == 0 {
		cfg.Pricing.TaxRate = DefaultPricingTaxRate
	}
	if cfg.Pricing.FixedFee == 0 {
		cfg.Pricing.FixedFee = DefaultPricingFixedFee
	}

	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = DefaultQuotaDailyLimit
	}

	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = DefaultGeminiModel
	}
	if cfg.Gemini.Timeout == 0 {
		cfg.Gemini.Timeout = DefaultGeminiTimeout
	}

	if cfg.Browser.PageTimeout == 0 {
		cfg.Browser.PageTimeout = DefaultBrowserPageTimeout
	}
	if cfg.Browser.SettleDelay == 0 {
		cfg.Browser.SettleDelay = DefaultBrowserSettleDelay
	}
	if cfg.Browser.UserAgent == "" {
		cfg.Browser.UserAgent = DefaultBrowserUserAgent
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
