package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// SpeciesComposition is one species' share of the stand.
type SpeciesComposition struct {
	Species   domain.Species `json:"species"`
	TPA       float64        `json:"tpa"`
	BasalArea float64        `json:"basal_area"`
	// PercentOfTotal is the species' share of stand basal area.
	PercentOfTotal float64  `json:"percent_of_total"`
	PercentTPA     float64  `json:"percent_tpa"`
	MeanDBH        float64  `json:"mean_dbh"`
	MeanHeight     *float64 `json:"mean_height,omitempty"`
}

// StandMetrics is a per-acre snapshot of the live standing stock.
type StandMetrics struct {
	TotalTPA              float64              `json:"total_tpa"`
	TotalBasalArea        float64              `json:"total_basal_area"`
	TotalVolumeCuft       float64              `json:"total_volume_cuft"`
	TotalVolumeBdft       float64              `json:"total_volume_bdft"`
	QuadraticMeanDiameter float64              `json:"quadratic_mean_diameter"`
	MeanHeight            *float64             `json:"mean_height,omitempty"`
	NumPlots              int                  `json:"num_plots"`
	NumSpecies            int                  `json:"num_species"`
	LiveTreeCount         int                  `json:"live_tree_count"`
	TreesWithoutHeight    int                  `json:"trees_without_height"`
	SpeciesComposition    []SpeciesComposition `json:"species_composition"`
}

// treeContribution is one live tree's per-acre contribution to its plot.
type treeContribution struct {
	weight    float64 // trees per acre represented
	basalArea float64 // sq ft per acre
	cuft      float64
	bdft      float64
	volume    TreeVolume
}

// contribution weights a live tree by expansion factor over plot area.
func contribution(plot *domain.Plot, tree *domain.Tree, calc *VolumeCalculator) treeContribution {
	w := tree.ExpansionFactor / plot.SizeAcres
	vol := calc.Volume(tree)
	return treeContribution{
		weight:    w,
		basalArea: BasalArea(tree.DBH) * w,
		cuft:      vol.CubicFeet * w,
		bdft:      vol.BoardFeet * w,
		volume:    vol,
	}
}

// plotDensity holds per-acre totals for a single plot.
type plotDensity struct {
	tpa       float64
	basalArea float64
	cuft      float64
	bdft      float64
}

// densityOf sums the per-acre contributions of the live trees on one plot.
func densityOf(plot *domain.Plot, calc *VolumeCalculator) plotDensity {
	var d plotDensity
	for _, tree := range plot.LiveTrees() {
		c := contribution(plot, tree, calc)
		d.tpa += c.weight
		d.basalArea += c.basalArea
		d.cuft += c.cuft
		d.bdft += c.bdft
	}
	return d
}

type speciesAccum struct {
	species     domain.Species
	tpa         float64
	basalArea   float64
	dbhWeighted float64
	heightSum   float64
	heightCount int
}

// ComputeStandMetrics aggregates the live trees of inv into per-acre stand
// totals. Each plot is expanded to a per-acre basis and the stand value is the
// mean across plots. An inventory without plots yields ErrInsufficientData.
func ComputeStandMetrics(inv *domain.ForestInventory, calc *VolumeCalculator) (*StandMetrics, error) {
	numPlots := inv.NumPlots()
	if numPlots == 0 {
		return nil, fmt.Errorf("%w: stand metrics require at least one plot", ErrInsufficientData)
	}
	n := float64(numPlots)

	var (
		sumTPA, sumBA, sumCuft, sumBdft float64
		sumDBH2W                        float64
		heightSum                       float64
		heightCount, liveCount, noHt    int
	)
	bySpecies := make(map[string]*speciesAccum)

	for i := range inv.Plots {
		plot := &inv.Plots[i]
		for _, tree := range plot.LiveTrees() {
			c := contribution(plot, tree, calc)
			liveCount++

			sumTPA += c.weight
			sumBA += c.basalArea
			sumCuft += c.cuft
			sumBdft += c.bdft
			sumDBH2W += tree.DBH * tree.DBH * c.weight
			if !c.volume.Computable {
				noHt++
			}

			acc, ok := bySpecies[tree.Species.Code]
			if !ok {
				acc = &speciesAccum{species: tree.Species}
				bySpecies[tree.Species.Code] = acc
			}
			acc.tpa += c.weight
			acc.basalArea += c.basalArea
			acc.dbhWeighted += tree.DBH * c.weight

			if tree.Height != nil && *tree.Height > 0 {
				heightSum += *tree.Height
				heightCount++
				acc.heightSum += *tree.Height
				acc.heightCount++
			}
		}
	}

	metrics := &StandMetrics{
		TotalTPA:           sumTPA / n,
		TotalBasalArea:     sumBA / n,
		TotalVolumeCuft:    sumCuft / n,
		TotalVolumeBdft:    sumBdft / n,
		MeanHeight:         mean(heightSum, heightCount),
		NumPlots:           numPlots,
		LiveTreeCount:      liveCount,
		TreesWithoutHeight: noHt,
	}
	if sumTPA > 0 {
		metrics.QuadraticMeanDiameter = math.Sqrt(sumDBH2W / sumTPA)
	}

	metrics.SpeciesComposition = composition(bySpecies, n, metrics.TotalTPA, metrics.TotalBasalArea)
	metrics.NumSpecies = len(metrics.SpeciesComposition)

	return metrics, nil
}

// composition turns per-species sums into per-acre composition entries,
// ordered by basal area (largest first) and then by species code.
func composition(
	bySpecies map[string]*speciesAccum,
	numPlots, totalTPA, totalBA float64,
) []SpeciesComposition {
	comp := make([]SpeciesComposition, 0, len(bySpecies))
	for _, acc := range bySpecies {
		sc := SpeciesComposition{
			Species:    acc.species,
			TPA:        acc.tpa / numPlots,
			BasalArea:  acc.basalArea / numPlots,
			MeanHeight: mean(acc.heightSum, acc.heightCount),
		}
		if acc.tpa > 0 {
			sc.MeanDBH = acc.dbhWeighted / acc.tpa
		}
		if totalBA > 0 {
			sc.PercentOfTotal = sc.BasalArea / totalBA * 100
		}
		if totalTPA > 0 {
			sc.PercentTPA = sc.TPA / totalTPA * 100
		}
		comp = append(comp, sc)
	}

	sort.Slice(comp, func(i, j int) bool {
		if comp[i].BasalArea != comp[j].BasalArea {
			return comp[i].BasalArea > comp[j].BasalArea
		}
		return comp[i].Species.Code < comp[j].Species.Code
	})
	return comp
}

func mean(sum float64, count int) *float64 {
	if count == 0 {
		return nil
	}
	m := sum / float64(count)
	return &m
}
