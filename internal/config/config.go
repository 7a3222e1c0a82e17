package config

import (
	"time"

	"github.com/phrazzld/forest-inventory/internal/domain"
	"github.com/phrazzld/forest-inventory/internal/domain/analysis"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Store    StoreConfig    `mapstructure:"store"    validate:"required"`
	Analysis AnalysisConfig `mapstructure:"analysis" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// MaxUploadBytes limits inventory request bodies.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is only required for the postgres store backend.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// StoreConfig selects where imported inventories live and for how long.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory postgres"`
	// DatasetTTL of zero keeps datasets until deleted.
	DatasetTTL    time.Duration `mapstructure:"dataset_ttl"    validate:"gte=0"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`
}

// AnalysisConfig holds the defaults used by the analysis service.
type AnalysisConfig struct {
	ConfidenceLevel     float64                          `mapstructure:"confidence_level"      validate:"gt=0,lt=1"`
	DiameterClassWidth  float64                          `mapstructure:"diameter_class_width"  validate:"gt=0"`
	IncludeEmptyClasses bool                             `mapstructure:"include_empty_classes"`
	ProjectionYears     int                              `mapstructure:"projection_years"      validate:"gte=0,lte=500"`
	GrowthModel         analysis.GrowthModelConfig       `mapstructure:"growth_model"`
	VolumeEquation      domain.VolumeEquation            `mapstructure:"volume_equation"`
	SpeciesEquations    map[string]domain.VolumeEquation `mapstructure:"species_equations"     validate:"dive"`
}

// Params converts the analysis section into service parameters.
func (c AnalysisConfig) Params() (*analysis.Params, error) {
	eq := c.VolumeEquation
	return analysis.NewParams(analysis.ParamsConfig{
		ConfidenceLevel:     c.ConfidenceLevel,
		DiameterClassWidth:  c.DiameterClassWidth,
		IncludeEmptyClasses: c.IncludeEmptyClasses,
		ProjectionYears:     c.ProjectionYears,
		GrowthModel:         c.GrowthModel,
		DefaultEquation:     &eq,
		SpeciesEquations:    c.SpeciesEquations,
	})
}
