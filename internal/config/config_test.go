package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, []string{"registry", "gemini", "patentechile"}, cfg.Plate.Providers)
	assert.Equal(t, []string{"gemini", "autofact", "mercadolibre", "chileautos"}, cfg.Market.Providers)
	assert.Equal(t, 1_500_000, cfg.Market.MinPrice)
	assert.Equal(t, 100_000_000, cfg.Market.MaxPrice)
	assert.Equal(t, 2, cfg.Market.YearTolerance)
	assert.Equal(t, 0.52, cfg.Pricing.PurchaseMultiplier)
	assert.Equal(t, 100_000, cfg.Pricing.RoundingStep)
	assert.Equal(t, 8_000_000, cfg.Pricing.ConsignmentThreshold)
	assert.Equal(t, 0.045, cfg.Pricing.CommissionRate)
	assert.Equal(t, 0.19, cfg.Pricing.TaxRate)
	assert.Equal(t, 428_400, cfg.Pricing.FixedFee)
	assert.Equal(t, 1000, cfg.Quota.DailyLimit)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Market.MinPrice = 2_000_000
	cfg.Plate.Providers = []string{"registry"}

	ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2_000_000, cfg.Market.MinPrice)
	assert.Equal(t, []string{"registry"}, cfg.Plate.Providers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "bad mode",
			mutate:  func(c *Config) { c.Server.Mode = "production" },
			wantErr: "server.mode",
		},
		{
			name:    "empty redis addr",
			mutate:  func(c *Config) { c.Redis.Addr = "" },
			wantErr: "redis.addr",
		},
		{
			name:    "no plate providers",
			mutate:  func(c *Config) { c.Plate.Providers = nil },
			wantErr: "plate.providers",
		},
		{
			name:    "memory provider without roster dir",
			mutate:  func(c *Config) { c.Plate.Providers = []string{"memory"}; c.Plate.RosterDir = "" },
			wantErr: "plate.roster_dir",
		},
		{
			name:    "inverted price band",
			mutate:  func(c *Config) { c.Market.MinPrice = 5_000_000; c.Market.MaxPrice = 1_000_000 },
			wantErr: "price band",
		},
		{
			name:    "decay rate out of range",
			mutate:  func(c *Config) { c.Market.DecayRate = 1.2 },
			wantErr: "decay_rate",
		},
		{
			name:    "purchase multiplier out of range",
			mutate:  func(c *Config) { c.Pricing.PurchaseMultiplier = 1.5 },
			wantErr: "purchase_multiplier",
		},
		{
			name:    "negative quota",
			mutate:  func(c *Config) { c.Quota.DailyLimit = -1 },
			wantErr: "quota.daily_limit",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9000
  mode: debug
redis:
  addr: "redis.internal:6379"
market:
  min_price: 2000000
pricing:
  purchase_multiplier: 0.55
quota:
  daily_limit: 50
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, 2_000_000, cfg.Market.MinPrice)
	assert.Equal(t, 0.55, cfg.Pricing.PurchaseMultiplier)
	assert.Equal(t, 50, cfg.Quota.DailyLimit)
	assert.Equal(t, "console", cfg.Log.Format)

	// Unset keys still get defaults.
	assert.Equal(t, DefaultMarketMaxPrice, cfg.Market.MaxPrice)
	assert.Equal(t, DefaultPricingFixedFee, cfg.Pricing.FixedFee)
	assert.Equal(t, DefaultServerWriteTimeout, cfg.Server.WriteTimeout)
}

func TestLoadInvalidFileRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 99999\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TASADOR_SERVER_PORT", "7777")
	t.Setenv("TASADOR_REDIS_ADDR", "envhost:6379")
	t.Setenv("TASADOR_GEMINI_API_KEY", "test-key")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "envhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, DefaultGeminiTimeout, cfg.Gemini.Timeout)
}

func TestDurationsParseFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
plate:
  provider_timeout: 20s
browser:
  page_timeout: 45s
  headless: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, cfg.Plate.ProviderTimeout)
	assert.Equal(t, 45*time.Second, cfg.Browser.PageTimeout)
	assert.False(t, cfg.Browser.Headless)
}
