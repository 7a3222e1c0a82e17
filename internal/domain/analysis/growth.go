package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Growth model type names used by GrowthModelConfig.
const (
	GrowthModelExponential = "exponential"
	GrowthModelLogistic    = "logistic"
	GrowthModelLinear      = "linear"
)

// GrowthModel is one of Exponential, Logistic or Linear. The set is closed.
type GrowthModel interface {
	// Name returns the model's type name.
	Name() string
	// Mortality returns the fraction of standing stock removed each year.
	Mortality() float64

	validate() error
}

// Exponential grows basal area and volumes by a constant annual rate.
type Exponential struct {
	AnnualRate    float64 `json:"annual_rate"`
	MortalityRate float64 `json:"mortality_rate"`
}

// Logistic grows basal area towards CarryingCapacity (sq ft per acre).
// Volumes follow the basal-area growth ratio.
type Logistic struct {
	AnnualRate       float64 `json:"annual_rate"`
	CarryingCapacity float64 `json:"carrying_capacity"`
	MortalityRate    float64 `json:"mortality_rate"`
}

// Linear adds a fixed basal-area increment each year. Volumes follow the
// basal-area growth ratio.
type Linear struct {
	AnnualIncrement float64 `json:"annual_increment"`
	MortalityRate   float64 `json:"mortality_rate"`
}

func (Exponential) Name() string { return GrowthModelExponential }
func (Logistic) Name() string    { return GrowthModelLogistic }
func (Linear) Name() string      { return GrowthModelLinear }

func (m Exponential) Mortality() float64 { return m.MortalityRate }
func (m Logistic) Mortality() float64    { return m.MortalityRate }
func (m Linear) Mortality() float64      { return m.MortalityRate }

func (m Exponential) validate() error {
	if err := validateFinite("annual rate", m.AnnualRate); err != nil {
		return err
	}
	return validateMortality(m.MortalityRate)
}

func (m Logistic) validate() error {
	if err := validateFinite("annual rate", m.AnnualRate); err != nil {
		return err
	}
	if !isFinite(m.CarryingCapacity) || m.CarryingCapacity <= 0 {
		return fmt.Errorf("%w: carrying capacity must be positive and finite, got %v",
			ErrInvalidArgument, m.CarryingCapacity)
	}
	return validateMortality(m.MortalityRate)
}

func (m Linear) validate() error {
	if err := validateFinite("annual increment", m.AnnualIncrement); err != nil {
		return err
	}
	return validateMortality(m.MortalityRate)
}

// GrowthModelConfig is the flat form of a GrowthModel used in configuration
// files and request bodies. Fields that do not apply to Type are ignored.
type GrowthModelConfig struct {
	Type             string  `json:"type"              mapstructure:"type"              validate:"required,oneof=exponential logistic linear"`
	AnnualRate       float64 `json:"annual_rate"       mapstructure:"annual_rate"`
	CarryingCapacity float64 `json:"carrying_capacity" mapstructure:"carrying_capacity"`
	AnnualIncrement  float64 `json:"annual_increment"  mapstructure:"annual_increment"`
	MortalityRate    float64 `json:"mortality_rate"    mapstructure:"mortality_rate"`
}

// Model converts the flat form into a validated GrowthModel.
func (c GrowthModelConfig) Model() (GrowthModel, error) {
	var model GrowthModel
	switch strings.ToLower(strings.TrimSpace(c.Type)) {
	case GrowthModelExponential:
		model = Exponential{AnnualRate: c.AnnualRate, MortalityRate: c.MortalityRate}
	case GrowthModelLogistic:
		model = Logistic{
			AnnualRate:       c.AnnualRate,
			CarryingCapacity: c.CarryingCapacity,
			MortalityRate:    c.MortalityRate,
		}
	case GrowthModelLinear:
		model = Linear{AnnualIncrement: c.AnnualIncrement, MortalityRate: c.MortalityRate}
	default:
		return nil, fmt.Errorf("%w: unknown growth model %q", ErrInvalidArgument, c.Type)
	}
	if err := model.validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// DescribeModel returns the flat form of m.
func DescribeModel(m GrowthModel) GrowthModelConfig {
	switch model := m.(type) {
	case Exponential:
		return GrowthModelConfig{
			Type:          GrowthModelExponential,
			AnnualRate:    model.AnnualRate,
			MortalityRate: model.MortalityRate,
		}
	case Logistic:
		return GrowthModelConfig{
			Type:             GrowthModelLogistic,
			AnnualRate:       model.AnnualRate,
			CarryingCapacity: model.CarryingCapacity,
			MortalityRate:    model.MortalityRate,
		}
	case Linear:
		return GrowthModelConfig{
			Type:            GrowthModelLinear,
			AnnualIncrement: model.AnnualIncrement,
			MortalityRate:   model.MortalityRate,
		}
	default:
		return GrowthModelConfig{}
	}
}

// YearPoint is the projected per-acre state of the stand at one year.
type YearPoint struct {
	Year       int     `json:"year"`
	TPA        float64 `json:"tpa"`
	BasalArea  float64 `json:"basal_area"`
	VolumeCuft float64 `json:"volume_cuft"`
	VolumeBdft float64 `json:"volume_bdft"`
}

// GrowthProjection holds one point per simulated year, starting at year 0.
type GrowthProjection []YearPoint

// Final returns the last projected point.
func (p GrowthProjection) Final() YearPoint {
	if len(p) == 0 {
		return YearPoint{}
	}
	return p[len(p)-1]
}

// StartingPoint returns the year-0 state for a projection from m.
func StartingPoint(m *StandMetrics) YearPoint {
	return YearPoint{
		TPA:        m.TotalTPA,
		BasalArea:  m.TotalBasalArea,
		VolumeCuft: m.TotalVolumeCuft,
		VolumeBdft: m.TotalVolumeBdft,
	}
}

// ProjectGrowth simulates years annual steps of model from the stand totals in
// start. Each step applies growth to basal area and volumes, then removes the
// mortality fraction from all four values, then clamps them at zero.
//
// The result has years+1 points; point 0 equals the starting totals.
func ProjectGrowth(start *StandMetrics, model GrowthModel, years int) (GrowthProjection, error) {
	if start == nil {
		return nil, fmt.Errorf("%w: starting metrics are required", ErrInvalidArgument)
	}
	return project(StartingPoint(start), model, years)
}

func project(start YearPoint, model GrowthModel, years int) (GrowthProjection, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: growth model is required", ErrInvalidArgument)
	}
	if years < 0 || years > MaxProjectionYears {
		return nil, fmt.Errorf("%w: years must be in [0, %d], got %d",
			ErrInvalidArgument, MaxProjectionYears, years)
	}
	if err := model.validate(); err != nil {
		return nil, err
	}

	projection := make(GrowthProjection, 0, years+1)
	start.Year = 0
	projection = append(projection, start)

	current := start
	for year := 1; year <= years; year++ {
		next, err := step(current, model)
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", year, err)
		}
		next.Year = year
		projection = append(projection, next)
		current = next
	}
	return projection, nil
}

// step advances p by one year.
func step(p YearPoint, model GrowthModel) (YearPoint, error) {
	next := p

	switch m := model.(type) {
	case Exponential:
		factor := 1 + m.AnnualRate
		next.BasalArea = p.BasalArea * factor
		next.VolumeCuft = p.VolumeCuft * factor
		next.VolumeBdft = p.VolumeBdft * factor
	case Logistic:
		ba := p.BasalArea + m.AnnualRate*p.BasalArea*(1-p.BasalArea/m.CarryingCapacity)
		next = scaleByBasalArea(p, ba)
	case Linear:
		next = scaleByBasalArea(p, p.BasalArea+m.AnnualIncrement)
	default:
		return YearPoint{}, fmt.Errorf("%w: unsupported growth model %T", ErrInvalidArgument, model)
	}

	// Checked before clamping, which would turn -Inf into 0.
	for _, v := range []float64{next.BasalArea, next.VolumeCuft, next.VolumeBdft} {
		if !isFinite(v) {
			return YearPoint{}, fmt.Errorf("%w: growth produced a non-finite value", ErrInvalidArgument)
		}
	}

	survival := 1 - model.Mortality()
	next.TPA = clamp(p.TPA * survival)
	next.BasalArea = clamp(next.BasalArea * survival)
	next.VolumeCuft = clamp(next.VolumeCuft * survival)
	next.VolumeBdft = clamp(next.VolumeBdft * survival)
	return next, nil
}

// scaleByBasalArea sets basal area to ba and scales both volumes by the
// basal-area growth ratio, keeping volume per unit basal area constant.
func scaleByBasalArea(p YearPoint, ba float64) YearPoint {
	ratio := 1.0
	if p.BasalArea != 0 {
		ratio = ba / p.BasalArea
	}
	p.BasalArea = ba
	p.VolumeCuft *= ratio
	p.VolumeBdft *= ratio
	return p
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateFinite(name string, v float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidArgument, name, v)
	}
	return nil
}

func validateMortality(rate float64) error {
	if !isFinite(rate) || rate < 0 || rate >= 1 {
		return fmt.Errorf("%w: mortality rate must be in [0, 1), got %v", ErrInvalidArgument, rate)
	}
	return nil
}
