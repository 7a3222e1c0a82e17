package domain

import (
	"fmt"
	"sort"
)

// ForestInventory is a complete cruise: a named, ordered collection of plots.
// It is the root aggregate handed to every analysis operation and is treated
// as read-only while being analysed.
type ForestInventory struct {
	Name       string   `json:"name"                  validate:"required"`
	TotalAcres *float64 `json:"total_acres,omitempty" validate:"omitempty,gt=0"`
	Plots      []Plot   `json:"plots"                 validate:"dive"`
}

// NewForestInventory creates an empty inventory with the given name.
func NewForestInventory(name string) *ForestInventory {
	return &ForestInventory{
		Name:  name,
		Plots: []Plot{},
	}
}

// NumPlots returns the number of plots.
func (inv *ForestInventory) NumPlots() int {
	return len(inv.Plots)
}

// NumTrees returns the number of measured trees across all plots, whatever
// their status.
func (inv *ForestInventory) NumTrees() int {
	n := 0
	for i := range inv.Plots {
		n += len(inv.Plots[i].Trees)
	}
	return n
}

// NumLiveTrees returns the number of live measured trees.
func (inv *ForestInventory) NumLiveTrees() int {
	n := 0
	for i := range inv.Plots {
		for j := range inv.Plots[i].Trees {
			if inv.Plots[i].Trees[j].IsLive() {
				n++
			}
		}
	}
	return n
}

// SpeciesList returns every species that appears in the inventory, live or
// not, sorted by code with duplicates removed.
func (inv *ForestInventory) SpeciesList() []Species {
	seen := make(map[string]Species)
	for i := range inv.Plots {
		for j := range inv.Plots[i].Trees {
			sp := inv.Plots[i].Trees[j].Species
			if _, ok := seen[sp.Code]; !ok {
				seen[sp.Code] = sp
			}
		}
	}

	list := make([]Species, 0, len(seen))
	for _, sp := range seen {
		list = append(list, sp)
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Code < list[b].Code })
	return list
}

// Validate checks the inventory, its plots and their trees. Plot IDs must be
// unique within the inventory.
func (inv *ForestInventory) Validate() error {
	if err := validateStruct(inv); err != nil {
		return err
	}

	seen := make(map[int]struct{}, len(inv.Plots))
	for i := range inv.Plots {
		p := &inv.Plots[i]
		if _, dup := seen[p.PlotID]; dup {
			return fmt.Errorf("%w: duplicate plot id %d", ErrValidation, p.PlotID)
		}
		seen[p.PlotID] = struct{}{}

		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
