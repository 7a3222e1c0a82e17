package domain

import "fmt"

// Plot is a fixed-area sample plot and the trees measured on it.
type Plot struct {
	PlotID        int      `json:"plot_id"`
	SizeAcres     float64  `json:"size_acres"               validate:"gt=0"`
	SlopePercent  *float64 `json:"slope_percent,omitempty"  validate:"omitempty,gte=0"`
	AspectDegrees *float64 `json:"aspect_degrees,omitempty" validate:"omitempty,gte=0,lte=360"`
	ElevationFt   *float64 `json:"elevation_ft,omitempty"`
	Trees         []Tree   `json:"trees"                    validate:"dive"`
}

// LiveTrees returns pointers to the live trees on the plot, in plot order.
func (p *Plot) LiveTrees() []*Tree {
	live := make([]*Tree, 0, len(p.Trees))
	for i := range p.Trees {
		if p.Trees[i].IsLive() {
			live = append(live, &p.Trees[i])
		}
	}
	return live
}

// Validate checks the plot fields and every tree on it. Trees must carry the
// plot's ID.
func (p *Plot) Validate() error {
	if err := validateStruct(p); err != nil {
		return err
	}
	for i := range p.Trees {
		if p.Trees[i].PlotID != p.PlotID {
			return fmt.Errorf("%w: tree %d references plot %d but is recorded on plot %d",
				ErrValidation, p.Trees[i].TreeID, p.Trees[i].PlotID, p.PlotID)
		}
	}
	return nil
}
