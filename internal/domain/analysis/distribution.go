package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// DiameterClass is one DBH bucket [LowerBound, UpperBound).
type DiameterClass struct {
	LowerBound float64 `json:"lower_bound"`
	Midpoint   float64 `json:"midpoint"`
	UpperBound float64 `json:"upper_bound"`
	TPA        float64 `json:"tpa"`
	BasalArea  float64 `json:"basal_area"`
	TreeCount  int     `json:"tree_count"`
}

// DiameterDistribution is the stand's live trees bucketed by DBH class,
// ordered by ascending lower bound.
type DiameterDistribution struct {
	ClassWidth float64         `json:"class_width"`
	Classes    []DiameterClass `json:"classes"`
}

// BuildDiameterDistribution buckets every live tree into the class
// floor(dbh / classWidth) × classWidth and aggregates per-acre TPA and basal
// area with the same weighting as ComputeStandMetrics.
//
// Only classes holding at least one tree are emitted unless includeEmpty is
// set, in which case gaps between the smallest and largest populated classes
// are filled with zero classes. A non-positive class width, or one so small
// that a tree's class index reaches MaxDiameterClasses, yields
// ErrInvalidArgument.
func BuildDiameterDistribution(
	inv *domain.ForestInventory,
	classWidth float64,
	includeEmpty bool,
) (*DiameterDistribution, error) {
	if math.IsNaN(classWidth) || math.IsInf(classWidth, 0) || classWidth <= 0 {
		return nil, fmt.Errorf("%w: diameter class width must be positive, got %v",
			ErrInvalidArgument, classWidth)
	}

	dist := &DiameterDistribution{
		ClassWidth: classWidth,
		Classes:    []DiameterClass{},
	}

	numPlots := inv.NumPlots()
	if numPlots == 0 {
		return dist, nil
	}
	n := float64(numPlots)

	buckets := make(map[int]*DiameterClass)
	for i := range inv.Plots {
		plot := &inv.Plots[i]
		for _, tree := range plot.LiveTrees() {
			q := math.Floor(tree.DBH / classWidth)
			if !isFinite(q) || q < 0 || q >= MaxDiameterClasses {
				return nil, fmt.Errorf("%w: class width %v is too small for dbh %v (at most %d classes)",
					ErrInvalidArgument, classWidth, tree.DBH, MaxDiameterClasses)
			}
			idx := int(q)
			class, ok := buckets[idx]
			if !ok {
				class = newDiameterClass(idx, classWidth)
				buckets[idx] = class
			}
			w := tree.ExpansionFactor / plot.SizeAcres
			class.TPA += w
			class.BasalArea += BasalArea(tree.DBH) * w
			class.TreeCount++
		}
	}
	if len(buckets) == 0 {
		return dist, nil
	}

	indices := make([]int, 0, len(buckets))
	for idx := range buckets {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	if includeEmpty {
		for idx := indices[0]; idx <= indices[len(indices)-1]; idx++ {
			if _, ok := buckets[idx]; !ok {
				buckets[idx] = newDiameterClass(idx, classWidth)
			}
		}
		indices = indices[:0]
		for idx := range buckets {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
	}

	dist.Classes = make([]DiameterClass, 0, len(indices))
	for _, idx := range indices {
		class := *buckets[idx]
		class.TPA /= n
		class.BasalArea /= n
		dist.Classes = append(dist.Classes, class)
	}
	return dist, nil
}

func newDiameterClass(idx int, width float64) *DiameterClass {
	lower := float64(idx) * width
	return &DiameterClass{
		LowerBound: lower,
		Midpoint:   lower + width/2,
		UpperBound: lower + width,
	}
}
