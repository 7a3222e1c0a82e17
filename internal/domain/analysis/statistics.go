package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// ConfidenceInterval describes the precision of a per-acre estimate across
// the plot sample.
type ConfidenceInterval struct {
	Mean                 float64 `json:"mean"`
	StdError             float64 `json:"std_error"`
	Lower                float64 `json:"lower"`
	Upper                float64 `json:"upper"`
	SamplingErrorPercent float64 `json:"sampling_error_percent"`
	ConfidenceLevel      float64 `json:"confidence_level"`
	SampleSize           int     `json:"sample_size"`
}

// SamplingStatistics holds confidence intervals for the four stand totals.
type SamplingStatistics struct {
	TPA        ConfidenceInterval `json:"tpa"`
	BasalArea  ConfidenceInterval `json:"basal_area"`
	VolumeCuft ConfidenceInterval `json:"volume_cuft"`
	VolumeBdft ConfidenceInterval `json:"volume_bdft"`
}

// ComputeSamplingStatistics treats each plot's per-acre value as one
// observation and computes a two-tailed Student-t confidence interval at the
// given level for TPA, basal area and both volumes.
//
// A confidence level outside (0, 1) yields ErrInvalidArgument; fewer than two
// plots yields ErrInsufficientData.
func ComputeSamplingStatistics(
	inv *domain.ForestInventory,
	calc *VolumeCalculator,
	confidence float64,
) (*SamplingStatistics, error) {
	if err := validateConfidence(confidence); err != nil {
		return nil, err
	}

	n := inv.NumPlots()
	if n < 2 {
		return nil, fmt.Errorf("%w: sampling statistics need at least 2 plots, got %d",
			ErrInsufficientData, n)
	}

	tpa := make([]float64, n)
	ba := make([]float64, n)
	cuft := make([]float64, n)
	bdft := make([]float64, n)
	for i := range inv.Plots {
		d := densityOf(&inv.Plots[i], calc)
		tpa[i] = d.tpa
		ba[i] = d.basalArea
		cuft[i] = d.cuft
		bdft[i] = d.bdft
	}

	t := tCritical(confidence, n-1)

	return &SamplingStatistics{
		TPA:        confidenceInterval(tpa, t, confidence),
		BasalArea:  confidenceInterval(ba, t, confidence),
		VolumeCuft: confidenceInterval(cuft, t, confidence),
		VolumeBdft: confidenceInterval(bdft, t, confidence),
	}, nil
}

func validateConfidence(confidence float64) error {
	if math.IsNaN(confidence) || confidence <= 0 || confidence >= 1 {
		return fmt.Errorf("%w: confidence level must be between 0 and 1 (exclusive), got %v",
			ErrInvalidArgument, confidence)
	}
	return nil
}

// tCritical returns the two-tailed Student-t critical value for the given
// confidence level and degrees of freedom.
func tCritical(confidence float64, df int) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return dist.Quantile(1 - (1-confidence)/2)
}

// confidenceInterval expects len(values) >= 2.
func confidenceInterval(values []float64, t, confidence float64) ConfidenceInterval {
	n := len(values)
	mean, stdDev := stat.MeanStdDev(values, nil)
	stdErr := stdDev / math.Sqrt(float64(n))
	margin := t * stdErr

	ci := ConfidenceInterval{
		Mean:            mean,
		StdError:        stdErr,
		Lower:           mean - margin,
		Upper:           mean + margin,
		ConfidenceLevel: confidence,
		SampleSize:      n,
	}
	if mean != 0 {
		ci.SamplingErrorPercent = math.Abs(margin/mean) * 100
	}
	return ci
}
