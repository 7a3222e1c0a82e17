package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startingMetrics(tpa, ba, cuft, bdft float64) *StandMetrics {
	return &StandMetrics{
		TotalTPA:        tpa,
		TotalBasalArea:  ba,
		TotalVolumeCuft: cuft,
		TotalVolumeBdft: bdft,
	}
}

func TestProjectGrowth_Exponential(t *testing.T) {
	t.Parallel()

	model := Exponential{AnnualRate: 0.03, MortalityRate: 0.005}
	projection, err := ProjectGrowth(startingMetrics(200, 100, 2000, 8000), model, 1)
	require.NoError(t, err)
	require.Len(t, projection, 2)

	year1 := projection[1]
	assert.Equal(t, 1, year1.Year)
	assert.InDelta(t, 102.485, year1.BasalArea, tolerance)
	assert.InDelta(t, 199.0, year1.TPA, tolerance)
	assert.InDelta(t, 2000*1.03*0.995, year1.VolumeCuft, tolerance)
	assert.InDelta(t, 8000*1.03*0.995, year1.VolumeBdft, tolerance)
}

func TestProjectGrowth_Linear(t *testing.T) {
	t.Parallel()

	model := Linear{AnnualIncrement: 2.0}
	projection, err := ProjectGrowth(startingMetrics(150, 50, 1000, 4000), model, 3)
	require.NoError(t, err)
	require.Len(t, projection, 4)

	want := []float64{50, 52, 54, 56}
	for i, p := range projection {
		assert.Equal(t, i, p.Year)
		assert.InDelta(t, want[i], p.BasalArea, tolerance)
		assert.InDelta(t, 150.0, p.TPA, tolerance)
		// Volume per unit basal area is preserved.
		assert.InDelta(t, 20.0, p.VolumeCuft/p.BasalArea, tolerance)
	}
}

func TestProjectGrowth_Logistic(t *testing.T) {
	t.Parallel()

	model := Logistic{AnnualRate: 0.03, CarryingCapacity: 300}
	projection, err := ProjectGrowth(startingMetrics(150, 100, 1000, 4000), model, 200)
	require.NoError(t, err)

	assert.InDelta(t, 102.0, projection[1].BasalArea, tolerance)
	assert.InDelta(t, 1020.0, projection[1].VolumeCuft, tolerance)

	final := projection.Final()
	assert.Equal(t, 200, final.Year)
	assert.LessOrEqual(t, final.BasalArea, 300.0)
	assert.Greater(t, final.BasalArea, 290.0)
}

func TestProjectGrowth_ZeroYears(t *testing.T) {
	t.Parallel()

	start := startingMetrics(120, 85.5, 1900, 7600)
	projection, err := ProjectGrowth(start, Exponential{AnnualRate: 0.02}, 0)
	require.NoError(t, err)
	require.Len(t, projection, 1)
	assert.Equal(t, StartingPoint(start), projection[0])
}

func TestProjectGrowth_NoHiddenState(t *testing.T) {
	t.Parallel()

	models := []GrowthModel{
		Exponential{AnnualRate: 0.04, MortalityRate: 0.01},
		Logistic{AnnualRate: 0.05, CarryingCapacity: 250, MortalityRate: 0.02},
		Linear{AnnualIncrement: 1.5, MortalityRate: 0.005},
	}

	for _, model := range models {
		model := model
		t.Run(model.Name(), func(t *testing.T) {
			t.Parallel()
			start := startingMetrics(180, 90, 1800, 7000)

			ten, err := ProjectGrowth(start, model, 10)
			require.NoError(t, err)
			eleven, err := ProjectGrowth(start, model, 11)
			require.NoError(t, err)

			fromTen, err := project(ten[10], model, 1)
			require.NoError(t, err)

			got := fromTen[1]
			want := eleven[11]
			assert.InDelta(t, want.TPA, got.TPA, tolerance)
			assert.InDelta(t, want.BasalArea, got.BasalArea, tolerance)
			assert.InDelta(t, want.VolumeCuft, got.VolumeCuft, tolerance)
			assert.InDelta(t, want.VolumeBdft, got.VolumeBdft, tolerance)
		})
	}
}

func TestProjectGrowth_MonotonicWithoutMortality(t *testing.T) {
	t.Parallel()

	models := []GrowthModel{
		Exponential{AnnualRate: 0.03},
		Logistic{AnnualRate: 0.03, CarryingCapacity: 300},
		Linear{AnnualIncrement: 2},
	}

	for _, model := range models {
		projection, err := ProjectGrowth(startingMetrics(150, 100, 2000, 8000), model, 30)
		require.NoError(t, err)
		for i := 1; i < len(projection); i++ {
			prev, cur := projection[i-1], projection[i]
			assert.Equal(t, prev.TPA, cur.TPA, model.Name())
			assert.GreaterOrEqual(t, cur.BasalArea, prev.BasalArea, model.Name())
			assert.GreaterOrEqual(t, cur.VolumeCuft, prev.VolumeCuft, model.Name())
			assert.GreaterOrEqual(t, cur.VolumeBdft, prev.VolumeBdft, model.Name())
		}
	}
}

func TestProjectGrowth_ClampsAtZero(t *testing.T) {
	t.Parallel()

	projection, err := ProjectGrowth(startingMetrics(100, 3, 60, 0), Linear{AnnualIncrement: -2}, 4)
	require.NoError(t, err)
	final := projection.Final()
	assert.Zero(t, final.BasalArea)
	assert.Zero(t, final.VolumeCuft)
	for _, p := range projection {
		assert.GreaterOrEqual(t, p.BasalArea, 0.0)
		assert.GreaterOrEqual(t, p.VolumeCuft, 0.0)
	}
}

func TestProjectGrowth_ZeroBasalArea(t *testing.T) {
	t.Parallel()

	projection, err := ProjectGrowth(startingMetrics(0, 0, 0, 0), Linear{AnnualIncrement: 1}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, projection[2].BasalArea, tolerance)
	assert.Zero(t, projection[2].VolumeCuft)
}

func TestProjectGrowth_InvalidArguments(t *testing.T) {
	t.Parallel()

	start := startingMetrics(150, 100, 2000, 8000)

	testCases := []struct {
		name  string
		start *StandMetrics
		model GrowthModel
		years int
	}{
		{"negative years", start, Exponential{AnnualRate: 0.03}, -1},
		{"nil model", start, nil, 5},
		{"nil start", nil, Exponential{AnnualRate: 0.03}, 5},
		{"mortality of one", start, Exponential{AnnualRate: 0.03, MortalityRate: 1}, 5},
		{"negative mortality", start, Linear{AnnualIncrement: 1, MortalityRate: -0.1}, 5},
		{"NaN mortality", start, Linear{AnnualIncrement: 1, MortalityRate: math.NaN()}, 5},
		{"infinite rate", start, Exponential{AnnualRate: math.Inf(1)}, 5},
		{"NaN increment", start, Linear{AnnualIncrement: math.NaN()}, 5},
		{"zero carrying capacity", start, Logistic{AnnualRate: 0.03}, 5},
		{"infinite carrying capacity", start, Logistic{AnnualRate: 0.03, CarryingCapacity: math.Inf(1)}, 5},
		{"overflow", start, Exponential{AnnualRate: 1e300}, 3},
		{"negative overflow before clamping", start, Logistic{AnnualRate: 0.03, CarryingCapacity: 1e-310}, 1},
		{"years above maximum", start, Linear{AnnualIncrement: 1}, MaxProjectionYears + 1},
		{"max int years", start, Linear{AnnualIncrement: 1}, math.MaxInt},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			projection, err := ProjectGrowth(tc.start, tc.model, tc.years)
			assert.Nil(t, projection)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestGrowthModelConfig_Model(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		config  GrowthModelConfig
		want    GrowthModel
		wantErr bool
	}{
		{
			name:   "exponential",
			config: GrowthModelConfig{Type: "exponential", AnnualRate: 0.03, MortalityRate: 0.005, CarryingCapacity: 99},
			want:   Exponential{AnnualRate: 0.03, MortalityRate: 0.005},
		},
		{
			name:   "logistic is case insensitive",
			config: GrowthModelConfig{Type: " Logistic ", AnnualRate: 0.03, CarryingCapacity: 300},
			want:   Logistic{AnnualRate: 0.03, CarryingCapacity: 300},
		},
		{
			name:   "linear",
			config: GrowthModelConfig{Type: "linear", AnnualIncrement: 2, MortalityRate: 0.01},
			want:   Linear{AnnualIncrement: 2, MortalityRate: 0.01},
		},
		{name: "unknown type", config: GrowthModelConfig{Type: "gompertz"}, wantErr: true},
		{name: "logistic without capacity", config: GrowthModelConfig{Type: "logistic", AnnualRate: 0.03}, wantErr: true},
		{name: "bad mortality", config: GrowthModelConfig{Type: "linear", MortalityRate: 1.2}, wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			model, err := tc.config.Model()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				assert.Nil(t, model)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, model)

			described := DescribeModel(model)
			roundTrip, err := described.Model()
			require.NoError(t, err)
			assert.Equal(t, model, roundTrip)
		})
	}
}

func TestProjectGrowth_MaxYears(t *testing.T) {
	t.Parallel()

	projection, err := ProjectGrowth(startingMetrics(150, 100, 2000, 8000), Linear{AnnualIncrement: 1}, MaxProjectionYears)
	require.NoError(t, err)
	assert.Len(t, projection, MaxProjectionYears+1)
}
