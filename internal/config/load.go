package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// EnvPrefix is prepended to every environment variable, e.g.
// FOREST_SERVER_PORT or FOREST_ANALYSIS_CONFIDENCE_LEVEL.
const EnvPrefix = "FOREST"

// ErrDatabaseURLRequired is returned when the postgres backend is selected
// without a database URL.
var ErrDatabaseURLRequired = errors.New("database url is required for the postgres store backend")

// Load configuration from environment variables and optionally a forest.yaml
// file in the working directory. Environment variables take precedence over
// values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// working directory for forest.yaml and ignores its absence.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("forest")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	if err := v.BindEnv("database.url"); err != nil {
		return nil, fmt.Errorf("error binding environment variable for database.url: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct constraints and cross-section rules.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if c.Store.Backend == BackendPostgres && c.Database.URL == "" {
		return fmt.Errorf("configuration validation failed: %w", ErrDatabaseURLRequired)
	}
	if _, err := c.Analysis.Params(); err != nil {
		return fmt.Errorf("configuration validation failed: analysis: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.max_upload_bytes", 32<<20)

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.dataset_ttl", "24h")
	v.SetDefault("store.sweep_interval", "5m")

	v.SetDefault("analysis.confidence_level", 0.95)
	v.SetDefault("analysis.diameter_class_width", 2.0)
	v.SetDefault("analysis.include_empty_classes", false)
	v.SetDefault("analysis.projection_years", 20)

	v.SetDefault("analysis.growth_model.type", "logistic")
	v.SetDefault("analysis.growth_model.annual_rate", 0.03)
	v.SetDefault("analysis.growth_model.carrying_capacity", 300.0)
	v.SetDefault("analysis.growth_model.annual_increment", 0.0)
	v.SetDefault("analysis.growth_model.mortality_rate", 0.005)

	v.SetDefault("analysis.volume_equation.cuft_coefficient", domain.DefaultCuftCoefficient)
	v.SetDefault("analysis.volume_equation.bdft_coefficient", domain.DefaultBdftCoefficient)
	v.SetDefault("analysis.volume_equation.bdft_dbh_coefficient", 0.0)
	v.SetDefault("analysis.volume_equation.bdft_min_dbh", domain.DefaultBdftMinDBH)
}
