package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "TASADOR"

func newViper(path string) *viper.Viper {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/tasador")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// viper only surfaces environment values through Unmarshal for keys it
	// already knows about, so every key is bound up front.
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}

	// Booleans whose default is true cannot go through ApplyDefaults, which
	// only fills zero values.
	v.SetDefault("browser.headless", DefaultBrowserHeadless)

	return v
}

var configKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.shutdown_timeout",
	"database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode", "database.max_conns",
	"database.min_conns", "database.conn_max_lifetime", "database.migration_path",
	"redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.min_idle_conns", "redis.dial_timeout", "redis.read_timeout",
	"redis.write_timeout", "redis.key_prefix",
	"plate.providers", "plate.provider_timeout", "plate.roster_dir",
	"market.providers", "market.provider_timeout", "market.min_price",
	"market.max_price", "market.year_tolerance", "market.base_price",
	"market.decay_rate", "market.floor_price",
	"pricing.purchase_multiplier", "pricing.rounding_step",
	"pricing.consignment_threshold", "pricing.commission_rate",
	"pricing.tax_rate", "pricing.fixed_fee",
	"quota.daily_limit",
	"gemini.api_key", "gemini.model", "gemini.timeout",
	"browser.headless", "browser.bin_path", "browser.user_agent",
	"browser.page_timeout", "browser.settle_delay",
	"log.level", "log.format",
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal failed: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from the given file path (or the default search
// locations when path is empty), overlays TASADOR_* environment variables,
// applies defaults and validates the result.
func Load(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is tolerated when no explicit path was given:
		// environment variables plus defaults may be a complete config.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %q failed: %w", path, err)
		}
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a configuration from environment variables and defaults
// alone, without touching the filesystem.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper(""))
}

// MustLoad is Load for program mainlines: any error panics.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Watch re-reads the config file whenever it changes on disk and invokes
// onChange with the freshly validated configuration.  Invalid updates are
// dropped silently; the previously loaded configuration stays in effect.
func Watch(path string, onChange func(*Config)) (*Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %q failed: %w", path, err)
	}

	cfg, err := unmarshalAndFinalize(v)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(fsnotify.Event) {
		if next, err := unmarshalAndFinalize(v); err == nil {
			onChange(next)
		}
	})
	v.WatchConfig()

	return cfg, nil
}
