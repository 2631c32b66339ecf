// Package config handles configuration loading and validation.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sartorproj/goholtwinters/holtwinters"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the full application configuration.
type Config struct {
	Model   ModelConfig   `mapstructure:"model"`
	Input   InputConfig   `mapstructure:"input"`
	Output  OutputConfig  `mapstructure:"output"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ModelConfig holds the smoothing parameters.
type ModelConfig struct {
	SeasonLength    int     `mapstructure:"season_length"`
	ForecastPeriods int     `mapstructure:"forecast_periods"`
	Alpha1          float64 `mapstructure:"alpha1"`
	Alpha2          float64 `mapstructure:"alpha2"`
	Alpha3          float64 `mapstructure:"alpha3"`
	NumericPolicy   string  `mapstructure:"numeric_policy"` // fail_fast | propagate
	Strict          bool    `mapstructure:"strict"`
}

// InputConfig describes where the series is read from.
type InputConfig struct {
	Path        string  `mapstructure:"path"`
	ValueColumn string  `mapstructure:"value_column"`
	DateColumn  string  `mapstructure:"date_column"`
	IDColumn    string  `mapstructure:"id_column"`
	IDFilter    string  `mapstructure:"id_filter"`
	Scale       float64 `mapstructure:"scale"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format    string `mapstructure:"format"` // text | json | yaml | csv
	Precision int    `mapstructure:"precision"`
}

// StoreConfig holds run persistence settings.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	RateLimit       float64       `mapstructure:"rate_limit"` // requests per second per client
	RateBurst       int           `mapstructure:"rate_burst"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Request limits for POST /api/v1/forecasts.
	MaxObservations    int `mapstructure:"max_observations"`
	MaxForecastPeriods int `mapstructure:"max_forecast_periods"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Addr returns the listen address as host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("model.season_length", 4)
	v.SetDefault("model.forecast_periods", 4)
	v.SetDefault("model.alpha1", 0.5)
	v.SetDefault("model.alpha2", 0.3)
	v.SetDefault("model.alpha3", 0.2)
	v.SetDefault("model.numeric_policy", "fail_fast")
	v.SetDefault("model.strict", false)
	v.SetDefault("input.path", "")
	v.SetDefault("input.value_column", "y")
	v.SetDefault("input.date_column", "")
	v.SetDefault("input.id_column", "")
	v.SetDefault("input.id_filter", "")
	v.SetDefault("input.scale", 1.0)
	v.SetDefault("output.format", "text")
	v.SetDefault("output.precision", 2)
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "hwforecast.db")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_observations", 100000)
	v.SetDefault("server.max_forecast_periods", 10000)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Load reads configuration from file and environment variables.
// An empty path searches for hwforecast.yaml in the usual locations; a
// missing file is not an error.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("hwforecast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/hwforecast")
	}

	// HW_MODEL_SEASON_LENGTH=12
	v.SetEnvPrefix("HW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

// LoadFromBytes reads YAML configuration from data on top of the defaults.
func LoadFromBytes(data []byte) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return v, nil
}

// Decode unmarshals v into a Config, fills in zero values that have a
// natural default and validates the result.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	if c.Input.Scale == 0 {
		c.Input.Scale = 1
	}
	if c.Server.RateBurst < 1 {
		c.Server.RateBurst = 1
	}
}

// Validate validates the configuration. It does not modify c.
func (c *Config) Validate() error {
	var errs []string

	if c.Model.SeasonLength < 1 {
		errs = append(errs, "model.season_length must be at least 1")
	}
	if c.Model.ForecastPeriods < 0 {
		errs = append(errs, "model.forecast_periods must be non-negative")
	}
	if err := c.Coefficients().Validate(c.Model.Strict); err != nil {
		errs = append(errs, "model: "+err.Error())
	}
	if _, err := holtwinters.ParseNumericPolicy(c.Model.NumericPolicy); err != nil {
		errs = append(errs, "model.numeric_policy must be 'fail_fast' or 'propagate'")
	}

	switch c.Output.Format {
	case "text", "json", "yaml", "csv":
	default:
		errs = append(errs, fmt.Sprintf("output.format '%s' is not supported", c.Output.Format))
	}
	if c.Output.Precision < 0 || c.Output.Precision > 12 {
		errs = append(errs, "output.precision must be between 0 and 12")
	}

	if c.Store.Enabled && c.Store.Path == "" {
		errs = append(errs, "store.path is required when the store is enabled")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, "server.rate_limit must be non-negative")
	}
	if c.Server.MaxObservations < 0 {
		errs = append(errs, "server.max_observations must be non-negative")
	}
	if c.Server.MaxForecastPeriods < 0 || c.Server.MaxForecastPeriods > holtwinters.MaxForecastPeriods {
		errs = append(errs, fmt.Sprintf("server.max_forecast_periods must be between 0 and %d", holtwinters.MaxForecastPeriods))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// Coefficients returns the smoothing coefficients of the model section.
func (c *Config) Coefficients() holtwinters.Coefficients {
	return holtwinters.Coefficients{
		Level:    c.Model.Alpha1,
		Trend:    c.Model.Alpha2,
		Seasonal: c.Model.Alpha3,
	}
}

// Options returns the run options of the model section. The policy must
// already have passed Validate.
func (c *Config) Options() holtwinters.Options {
	policy, _ := holtwinters.ParseNumericPolicy(c.Model.NumericPolicy)
	return holtwinters.Options{Policy: policy, Strict: c.Model.Strict}
}
