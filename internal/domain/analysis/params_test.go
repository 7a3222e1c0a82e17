package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	assert.Equal(t, 0.95, params.ConfidenceLevel)
	assert.Equal(t, 2.0, params.DiameterClassWidth)
	assert.False(t, params.IncludeEmptyClasses)
	assert.Equal(t, 20, params.ProjectionYears)
	assert.Equal(t, Logistic{AnnualRate: 0.03, CarryingCapacity: 300, MortalityRate: 0.005},
		params.DefaultGrowthModel)
	require.NotNil(t, params.Volume)

	tree := liveTree(1, 1, "DF", 12, 80)
	assert.Equal(t, domain.DefaultVolumeEquation(), params.Volume.EquationFor(&tree))
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	t.Run("zero config keeps defaults", func(t *testing.T) {
		t.Parallel()
		params, err := NewParams(ParamsConfig{})
		require.NoError(t, err)
		assert.Equal(t, NewDefaultParams().ConfidenceLevel, params.ConfidenceLevel)
		assert.Equal(t, NewDefaultParams().DefaultGrowthModel, params.DefaultGrowthModel)
	})

	t.Run("overrides applied", func(t *testing.T) {
		t.Parallel()
		cedar := domain.VolumeEquation{CuftCoefficient: 0.0021, BdftCoefficient: 0.0105, BdftMinDBH: 8}
		params, err := NewParams(ParamsConfig{
			ConfidenceLevel:     0.9,
			DiameterClassWidth:  4,
			IncludeEmptyClasses: true,
			ProjectionYears:     50,
			GrowthModel:         GrowthModelConfig{Type: GrowthModelLinear, AnnualIncrement: 1.2},
			SpeciesEquations:    map[string]domain.VolumeEquation{"WRC": cedar},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.9, params.ConfidenceLevel)
		assert.Equal(t, 4.0, params.DiameterClassWidth)
		assert.True(t, params.IncludeEmptyClasses)
		assert.Equal(t, 50, params.ProjectionYears)
		assert.Equal(t, Linear{AnnualIncrement: 1.2}, params.DefaultGrowthModel)

		wrc := liveTree(1, 1, "WRC", 12, 80)
		df := liveTree(1, 2, "DF", 12, 80)
		assert.Equal(t, cedar, params.Volume.EquationFor(&wrc))
		assert.Equal(t, domain.DefaultVolumeEquation(), params.Volume.EquationFor(&df))
	})

	invalid := []struct {
		name   string
		config ParamsConfig
	}{
		{"confidence above one", ParamsConfig{ConfidenceLevel: 1.5}},
		{"negative class width", ParamsConfig{DiameterClassWidth: -1}},
		{"negative projection years", ParamsConfig{ProjectionYears: -3}},
		{"projection years above maximum", ParamsConfig{ProjectionYears: MaxProjectionYears + 1}},
		{"unknown growth model", ParamsConfig{GrowthModel: GrowthModelConfig{Type: "weibull"}}},
		{"negative coefficient", ParamsConfig{
			DefaultEquation: &domain.VolumeEquation{CuftCoefficient: -0.1},
		}},
	}
	for _, tc := range invalid {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			params, err := NewParams(tc.config)
			assert.Nil(t, params)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}
