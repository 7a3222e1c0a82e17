package analysis

import (
	"fmt"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// Default analysis settings.
const (
	DefaultConfidenceLevel    = 0.95
	DefaultDiameterClassWidth = 2.0
	DefaultProjectionYears    = 20

	// MaxProjectionYears bounds every growth projection horizon.
	MaxProjectionYears = 500

	// MaxDiameterClasses bounds the class index range of a diameter
	// distribution, which rules out class widths too small for the stand.
	MaxDiameterClasses = 10000
)

// Params holds the defaults the Service applies when a caller omits an
// override.
type Params struct {
	ConfidenceLevel     float64
	DiameterClassWidth  float64
	IncludeEmptyClasses bool
	DefaultGrowthModel  GrowthModel
	ProjectionYears     int

	Volume *VolumeCalculator
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the default.
type ParamsConfig struct {
	ConfidenceLevel     float64
	DiameterClassWidth  float64
	IncludeEmptyClasses bool
	ProjectionYears     int

	// GrowthModel replaces the default model when Type is set.
	GrowthModel GrowthModelConfig

	// DefaultEquation replaces the general-purpose volume equation when set.
	DefaultEquation  *domain.VolumeEquation
	SpeciesEquations map[string]domain.VolumeEquation
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		ConfidenceLevel:    DefaultConfidenceLevel,
		DiameterClassWidth: DefaultDiameterClassWidth,
		DefaultGrowthModel: Logistic{
			AnnualRate:       0.03,
			CarryingCapacity: 300,
			MortalityRate:    0.005,
		},
		ProjectionYears: DefaultProjectionYears,
		Volume:          DefaultVolumeCalculator(),
	}
}

// NewParams creates a new Params instance with custom configuration. Every
// override is checked so that a Service never holds an invalid default.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.ConfidenceLevel != 0 {
		if err := validateConfidence(config.ConfidenceLevel); err != nil {
			return nil, err
		}
		params.ConfidenceLevel = config.ConfidenceLevel
	}
	if config.DiameterClassWidth != 0 {
		if !isFinite(config.DiameterClassWidth) || config.DiameterClassWidth <= 0 {
			return nil, fmt.Errorf("%w: diameter class width must be positive, got %v",
				ErrInvalidArgument, config.DiameterClassWidth)
		}
		params.DiameterClassWidth = config.DiameterClassWidth
	}
	params.IncludeEmptyClasses = config.IncludeEmptyClasses

	if config.ProjectionYears < 0 || config.ProjectionYears > MaxProjectionYears {
		return nil, fmt.Errorf("%w: projection years must be in [0, %d], got %d",
			ErrInvalidArgument, MaxProjectionYears, config.ProjectionYears)
	}
	if config.ProjectionYears > 0 {
		params.ProjectionYears = config.ProjectionYears
	}

	if config.GrowthModel.Type != "" {
		model, err := config.GrowthModel.Model()
		if err != nil {
			return nil, err
		}
		params.DefaultGrowthModel = model
	}

	if config.DefaultEquation != nil || len(config.SpeciesEquations) > 0 {
		def := domain.DefaultVolumeEquation()
		if config.DefaultEquation != nil {
			def = *config.DefaultEquation
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%w: default volume equation: %v", ErrInvalidArgument, err)
		}
		for code, eq := range config.SpeciesEquations {
			if err := eq.Validate(); err != nil {
				return nil, fmt.Errorf("%w: volume equation for %s: %v", ErrInvalidArgument, code, err)
			}
		}
		params.Volume = NewVolumeCalculator(def, config.SpeciesEquations)
	}

	return params, nil
}
