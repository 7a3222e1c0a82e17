package domain

import (
	"fmt"
	"strings"
)

// TreeStatus records what happened to a sample tree at measurement time.
type TreeStatus string

// Possible tree status values
const (
	TreeStatusLive     TreeStatus = "live"
	TreeStatusDead     TreeStatus = "dead"
	TreeStatusCut      TreeStatus = "cut"
	TreeStatusIngrowth TreeStatus = "ingrowth"
)

// ParseTreeStatus converts a status name or single-letter abbreviation
// (case-insensitive) into a TreeStatus.
func ParseTreeStatus(s string) (TreeStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live", "l":
		return TreeStatusLive, nil
	case "dead", "d":
		return TreeStatusDead, nil
	case "cut", "c":
		return TreeStatusCut, nil
	case "ingrowth", "i":
		return TreeStatusIngrowth, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTreeStatus, s)
	}
}

// IsValid reports whether s is one of the known statuses.
func (s TreeStatus) IsValid() bool {
	switch s {
	case TreeStatusLive, TreeStatusDead, TreeStatusCut, TreeStatusIngrowth:
		return true
	default:
		return false
	}
}

// Species identifies a tree species. Two trees share a species when their
// codes match; the common name is for display only.
type Species struct {
	Code       string `json:"code"        validate:"required"`
	CommonName string `json:"common_name"`
}

// String renders the species as "Common Name (CODE)".
func (s Species) String() string {
	if s.CommonName == "" {
		return s.Code
	}
	return fmt.Sprintf("%s (%s)", s.CommonName, s.Code)
}

// Tree is a single measured sample tree.
//
// ExpansionFactor is the number of real-world trees one sampled tree stands
// for on its plot; together with the plot size it is the weight used by every
// per-acre aggregation.
type Tree struct {
	PlotID          int             `json:"plot_id"`
	TreeID          int             `json:"tree_id"`
	Species         Species         `json:"species"`
	DBH             float64         `json:"dbh"                       validate:"gt=0"`                  // Diameter at breast height, inches
	Height          *float64        `json:"height,omitempty"          validate:"omitempty,gt=0"`        // Total height, feet
	CrownRatio      *float64        `json:"crown_ratio,omitempty"     validate:"omitempty,gte=0,lte=1"` // Live crown ratio
	Status          TreeStatus      `json:"status"                    validate:"required,oneof=live dead cut ingrowth"`
	ExpansionFactor float64         `json:"expansion_factor"          validate:"gt=0"`
	Age             *int            `json:"age,omitempty"             validate:"omitempty,gte=0"`
	Defect          *float64        `json:"defect,omitempty"          validate:"omitempty,gte=0,lte=1"` // Cull fraction
	VolumeEquation  *VolumeEquation `json:"volume_equation,omitempty"`
}

// IsLive reports whether the tree counts toward standing stock.
func (t *Tree) IsLive() bool {
	return t.Status == TreeStatusLive
}

// Validate checks if the Tree has valid data.
// Returns an error wrapping ErrValidation if any field fails validation.
func (t *Tree) Validate() error {
	return validateStruct(t)
}
