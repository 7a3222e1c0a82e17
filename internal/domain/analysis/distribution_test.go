package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

func TestBuildDiameterDistribution_Sparse(t *testing.T) {
	t.Parallel()

	dist, err := BuildDiameterDistribution(mixedStand(), 2, false)
	require.NoError(t, err)
	assert.Equal(t, 2.0, dist.ClassWidth)

	lowers := make([]float64, 0, len(dist.Classes))
	for _, c := range dist.Classes {
		lowers = append(lowers, c.LowerBound)
		assert.Positive(t, c.TreeCount)
		assert.InDelta(t, c.LowerBound+1, c.Midpoint, tolerance)
		assert.InDelta(t, c.LowerBound+2, c.UpperBound, tolerance)
	}
	// 4.1, 7.9, 9.5, 11.8, 13, 16, 22.3
	assert.Equal(t, []float64{4, 6, 8, 10, 12, 16, 22}, lowers)
}

func TestBuildDiameterDistribution_Properties(t *testing.T) {
	t.Parallel()

	inv := mixedStand()
	metrics, err := ComputeStandMetrics(inv, nil)
	require.NoError(t, err)

	for _, width := range []float64{0.5, 1, 2, 3.3, 5, 50} {
		dist, err := BuildDiameterDistribution(inv, width, false)
		require.NoError(t, err)

		var count int
		var tpa, ba float64
		for i, c := range dist.Classes {
			count += c.TreeCount
			tpa += c.TPA
			ba += c.BasalArea
			if i > 0 {
				assert.Less(t, dist.Classes[i-1].LowerBound, c.LowerBound)
			}
		}
		assert.Equal(t, inv.NumLiveTrees(), count, "width %v", width)
		assert.InDelta(t, metrics.TotalTPA, tpa, tolerance)
		assert.InDelta(t, metrics.TotalBasalArea, ba, tolerance)
	}
}

func TestBuildDiameterDistribution_ClassBoundary(t *testing.T) {
	t.Parallel()

	inv := domain.NewForestInventory("boundary")
	inv.Plots = []domain.Plot{{PlotID: 1, SizeAcres: 0.2, Trees: []domain.Tree{
		liveTree(1, 1, "DF", 10, 60),
		liveTree(1, 2, "DF", 11.99, 60),
		liveTree(1, 3, "DF", 12, 60),
	}}}

	dist, err := BuildDiameterDistribution(inv, 2, false)
	require.NoError(t, err)
	require.Len(t, dist.Classes, 2)
	assert.Equal(t, 10.0, dist.Classes[0].LowerBound)
	assert.Equal(t, 2, dist.Classes[0].TreeCount)
	assert.Equal(t, 12.0, dist.Classes[1].LowerBound)
	assert.Equal(t, 1, dist.Classes[1].TreeCount)
	assert.InDelta(t, 50.0, dist.Classes[0].TPA, tolerance)
}

func TestBuildDiameterDistribution_IncludeEmpty(t *testing.T) {
	t.Parallel()

	dist, err := BuildDiameterDistribution(mixedStand(), 2, true)
	require.NoError(t, err)

	require.Len(t, dist.Classes, 10)
	for i, c := range dist.Classes {
		assert.InDelta(t, 4+2*float64(i), c.LowerBound, tolerance)
	}
	empty := dist.Classes[5]
	assert.Equal(t, 14.0, empty.LowerBound)
	assert.Zero(t, empty.TreeCount)
	assert.Zero(t, empty.TPA)
}

func TestBuildDiameterDistribution_NoTrees(t *testing.T) {
	t.Parallel()

	dist, err := BuildDiameterDistribution(domain.NewForestInventory("empty"), 2, true)
	require.NoError(t, err)
	assert.NotNil(t, dist.Classes)
	assert.Empty(t, dist.Classes)
}

func TestBuildDiameterDistribution_InvalidWidth(t *testing.T) {
	t.Parallel()

	for _, width := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		dist, err := BuildDiameterDistribution(douglasFirStand(), width, false)
		assert.Nil(t, dist)
		assert.ErrorIs(t, err, ErrInvalidArgument, "width %v", width)
	}
}

func TestBuildDiameterDistribution_WidthTooSmall(t *testing.T) {
	t.Parallel()

	inv := &domain.ForestInventory{
		Name: "spread",
		Plots: []domain.Plot{{
			PlotID:    1,
			SizeAcres: 0.2,
			Trees:     []domain.Tree{liveTree(1, 1, "DF", 12, 80), liveTree(1, 2, "DF", 30, 110)},
		}},
	}

	for _, includeEmpty := range []bool{false, true} {
		for _, width := range []float64{1e-300, 1e-3} {
			dist, err := BuildDiameterDistribution(inv, width, includeEmpty)
			assert.Nil(t, dist)
			assert.ErrorIs(t, err, ErrInvalidArgument, "width %v includeEmpty %v", width, includeEmpty)
		}
	}
}

func TestBuildDiameterDistribution_FineWidthZeroFill(t *testing.T) {
	t.Parallel()

	inv := &domain.ForestInventory{
		Name: "spread",
		Plots: []domain.Plot{{
			PlotID:    1,
			SizeAcres: 0.2,
			Trees:     []domain.Tree{liveTree(1, 1, "DF", 1, 10), liveTree(1, 2, "DF", 30, 110)},
		}},
	}

	dist, err := BuildDiameterDistribution(inv, 0.0625, true)
	require.NoError(t, err)
	// Classes 16 through 480.
	assert.Len(t, dist.Classes, 465)
	for _, class := range dist.Classes {
		assert.GreaterOrEqual(t, class.LowerBound, 0.0)
	}
}
