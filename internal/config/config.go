package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/quantex/fixgate/internal/risk"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// RiskConfig holds the pre-trade limits as decimal strings; prices never
// pass through float64.
type RiskConfig struct {
	MaxQuantity  int64  `mapstructure:"max_quantity" yaml:"max_quantity"`
	PriceBandMin string `mapstructure:"price_band_min" yaml:"price_band_min"`
	PriceBandMax string `mapstructure:"price_band_max" yaml:"price_band_max"`
	MaxNotional  string `mapstructure:"max_notional" yaml:"max_notional"`
	MaxPosition  int64  `mapstructure:"max_position" yaml:"max_position"`
}

// Config represents the application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    struct {
		Level string `mapstructure:"level" yaml:"level"`
	} `mapstructure:"log" yaml:"log"`
	Journal struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"journal" yaml:"journal"`
	Risk RiskConfig `mapstructure:"risk" yaml:"risk"`
}

// Load reads configuration from the given YAML file (optional) and the
// environment (prefix FIXGATE, dots become underscores).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FIXGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("fixgate")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("journal.path", "data/fixgate_events.jsonl")
	v.SetDefault("risk.max_quantity", 1000)
	v.SetDefault("risk.price_band_min", "1.00")
	v.SetDefault("risk.price_band_max", "10000.00")
	v.SetDefault("risk.max_notional", "1000000.00")
	v.SetDefault("risk.max_position", 2000)
}

// RiskLimits parses the configured limits into the engine's rule set.
func (c *Config) RiskLimits() (risk.Limits, error) {
	bandMin, err := decimal.NewFromString(c.Risk.PriceBandMin)
	if err != nil {
		return risk.Limits{}, fmt.Errorf("invalid risk.price_band_min %q: %w", c.Risk.PriceBandMin, err)
	}
	bandMax, err := decimal.NewFromString(c.Risk.PriceBandMax)
	if err != nil {
		return risk.Limits{}, fmt.Errorf("invalid risk.price_band_max %q: %w", c.Risk.PriceBandMax, err)
	}
	maxNotional, err := decimal.NewFromString(c.Risk.MaxNotional)
	if err != nil {
		return risk.Limits{}, fmt.Errorf("invalid risk.max_notional %q: %w", c.Risk.MaxNotional, err)
	}
	return risk.Limits{
		MaxQuantity:  c.Risk.MaxQuantity,
		PriceBandMin: bandMin,
		PriceBandMax: bandMax,
		MaxNotional:  maxNotional,
		MaxPosition:  c.Risk.MaxPosition,
	}, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
