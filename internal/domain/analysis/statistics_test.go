package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

func TestTCritical(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 12.706, tCritical(0.95, 1), 0.001)
	assert.InDelta(t, 2.262, tCritical(0.95, 9), 0.001)
	assert.InDelta(t, 1.833, tCritical(0.90, 9), 0.001)
}

func TestComputeSamplingStatistics_KnownValues(t *testing.T) {
	t.Parallel()

	// Plot 1 carries one tree (25 TPA), plot 2 carries two (50 TPA).
	inv := domain.NewForestInventory("two plots")
	inv.Plots = []domain.Plot{
		{PlotID: 1, SizeAcres: 0.2, Trees: []domain.Tree{liveTree(1, 1, "DF", 12, 80)}},
		{PlotID: 2, SizeAcres: 0.2, Trees: []domain.Tree{
			liveTree(2, 1, "DF", 12, 80),
			liveTree(2, 2, "DF", 12, 80),
		}},
	}

	stats, err := ComputeSamplingStatistics(inv, nil, 0.95)
	require.NoError(t, err)

	tpa := stats.TPA
	assert.InDelta(t, 37.5, tpa.Mean, tolerance)
	assert.InDelta(t, 12.5, tpa.StdError, tolerance)
	margin := tCritical(0.95, 1) * 12.5
	assert.InDelta(t, 37.5-margin, tpa.Lower, tolerance)
	assert.InDelta(t, 37.5+margin, tpa.Upper, tolerance)
	assert.InDelta(t, margin/37.5*100, tpa.SamplingErrorPercent, tolerance)
	assert.Equal(t, 0.95, tpa.ConfidenceLevel)
	assert.Equal(t, 2, tpa.SampleSize)
}

func TestComputeSamplingStatistics_IdenticalPlots(t *testing.T) {
	t.Parallel()

	stats, err := ComputeSamplingStatistics(douglasFirStand(), nil, 0.95)
	require.NoError(t, err)

	assert.InDelta(t, 19.6344, stats.BasalArea.Mean, tolerance)
	assert.Zero(t, stats.BasalArea.StdError)
	assert.Equal(t, stats.BasalArea.Mean, stats.BasalArea.Lower)
	assert.Equal(t, stats.BasalArea.Mean, stats.BasalArea.Upper)
	assert.Zero(t, stats.BasalArea.SamplingErrorPercent)
}

func TestComputeSamplingStatistics_Bounds(t *testing.T) {
	t.Parallel()

	for _, confidence := range []float64{0.5, 0.8, 0.9, 0.95, 0.99} {
		stats, err := ComputeSamplingStatistics(mixedStand(), nil, confidence)
		require.NoError(t, err)

		for _, ci := range []ConfidenceInterval{stats.TPA, stats.BasalArea, stats.VolumeCuft, stats.VolumeBdft} {
			assert.LessOrEqual(t, ci.Lower, ci.Mean)
			assert.LessOrEqual(t, ci.Mean, ci.Upper)
			assert.GreaterOrEqual(t, ci.SamplingErrorPercent, 0.0)
			assert.Equal(t, 3, ci.SampleSize)
		}
	}
}

func TestComputeSamplingStatistics_ZeroMean(t *testing.T) {
	t.Parallel()

	inv := domain.NewForestInventory("bare ground")
	inv.Plots = []domain.Plot{{PlotID: 1, SizeAcres: 0.2}, {PlotID: 2, SizeAcres: 0.2}}

	stats, err := ComputeSamplingStatistics(inv, nil, 0.95)
	require.NoError(t, err)
	assert.Zero(t, stats.TPA.Mean)
	assert.Zero(t, stats.TPA.SamplingErrorPercent)
}

func TestComputeSamplingStatistics_Errors(t *testing.T) {
	t.Parallel()

	onePlot := douglasFirStand()
	onePlot.Plots = onePlot.Plots[:1]

	testCases := []struct {
		name       string
		inv        *domain.ForestInventory
		confidence float64
		wantErr    error
	}{
		{"single plot", onePlot, 0.95, ErrInsufficientData},
		{"no plots", domain.NewForestInventory("empty"), 0.95, ErrInsufficientData},
		{"confidence zero", douglasFirStand(), 0, ErrInvalidArgument},
		{"confidence one", douglasFirStand(), 1, ErrInvalidArgument},
		{"confidence negative", douglasFirStand(), -0.5, ErrInvalidArgument},
		{"confidence NaN", douglasFirStand(), math.NaN(), ErrInvalidArgument},
		{"configuration checked before data", onePlot, 1.5, ErrInvalidArgument},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			stats, err := ComputeSamplingStatistics(tc.inv, nil, tc.confidence)
			assert.Nil(t, stats)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
