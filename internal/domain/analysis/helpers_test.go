package analysis

import (
	"github.com/phrazzld/forest-inventory/internal/domain"
)

const tolerance = 1e-6

func floatPtr(v float64) *float64 { return &v }

func liveTree(plotID, treeID int, code string, dbh, height float64) domain.Tree {
	tree := domain.Tree{
		PlotID:          plotID,
		TreeID:          treeID,
		Species:         domain.Species{Code: code, CommonName: code},
		DBH:             dbh,
		Status:          domain.TreeStatusLive,
		ExpansionFactor: 5,
	}
	if height > 0 {
		tree.Height = floatPtr(height)
	}
	return tree
}

// douglasFirStand is two 0.2 acre plots, each holding one live Douglas fir
// with DBH 12 in, height 80 ft and expansion factor 5.
func douglasFirStand() *domain.ForestInventory {
	inv := domain.NewForestInventory("Douglas fir stand")
	for id := 1; id <= 2; id++ {
		inv.Plots = append(inv.Plots, domain.Plot{
			PlotID:    id,
			SizeAcres: 0.2,
			Trees:     []domain.Tree{liveTree(id, 1, "DF", 12, 80)},
		})
	}
	return inv
}

// mixedStand has three plots with two species, a dead tree and a tree
// without height.
func mixedStand() *domain.ForestInventory {
	inv := domain.NewForestInventory("Mixed stand")
	dead := liveTree(1, 3, "DF", 20, 90)
	dead.Status = domain.TreeStatusDead

	inv.Plots = []domain.Plot{
		{PlotID: 1, SizeAcres: 0.2, Trees: []domain.Tree{
			liveTree(1, 1, "DF", 16, 95),
			liveTree(1, 2, "WH", 9.5, 60),
			dead,
		}},
		{PlotID: 2, SizeAcres: 0.1, Trees: []domain.Tree{
			liveTree(2, 1, "DF", 22.3, 110),
			liveTree(2, 2, "WH", 4.1, 0),
		}},
		{PlotID: 3, SizeAcres: 0.2, Trees: []domain.Tree{
			liveTree(3, 1, "WH", 11.8, 70),
			liveTree(3, 2, "DF", 13, 85),
			liveTree(3, 3, "DF", 7.9, 50),
		}},
	}
	return inv
}
