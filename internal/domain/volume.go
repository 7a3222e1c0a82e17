package domain

// Default volume equation coefficients.
const (
	DefaultCuftCoefficient = 0.002454
	DefaultBdftCoefficient = 0.01159
	DefaultBdftMinDBH      = 6.0
)

// VolumeEquation holds the coefficients used to turn a tree's diameter and
// height into volume:
//
//	cubic feet = CuftCoefficient × DBH² × H
//	board feet = BdftCoefficient × DBH² × H − BdftDBHCoefficient × DBH
//
// Board-foot volume is zero below BdftMinDBH. Equations are plain values and
// are never mutated once attached to a tree or species.
type VolumeEquation struct {
	CuftCoefficient    float64 `json:"cuft_coefficient"               validate:"gte=0" mapstructure:"cuft_coefficient"`
	BdftCoefficient    float64 `json:"bdft_coefficient"               validate:"gte=0" mapstructure:"bdft_coefficient"`
	BdftDBHCoefficient float64 `json:"bdft_dbh_coefficient,omitempty" validate:"gte=0" mapstructure:"bdft_dbh_coefficient"`
	BdftMinDBH         float64 `json:"bdft_min_dbh"                   validate:"gte=0" mapstructure:"bdft_min_dbh"`
}

// DefaultVolumeEquation returns the general-purpose equation used when no
// species-specific coefficients are configured.
func DefaultVolumeEquation() VolumeEquation {
	return VolumeEquation{
		CuftCoefficient: DefaultCuftCoefficient,
		BdftCoefficient: DefaultBdftCoefficient,
		BdftMinDBH:      DefaultBdftMinDBH,
	}
}

// Validate checks that all coefficients are non-negative.
func (e *VolumeEquation) Validate() error {
	return validateStruct(e)
}
