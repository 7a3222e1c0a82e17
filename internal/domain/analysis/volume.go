package analysis

import (
	"math"
	"strings"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// BasalAreaFactor converts DBH² in square inches to basal area in square feet
// (π / (4 × 144)).
const BasalAreaFactor = 0.005454

// BasalArea returns the cross-sectional stem area in square feet for a DBH in
// inches.
func BasalArea(dbh float64) float64 {
	return BasalAreaFactor * dbh * dbh
}

// TreeVolume is the gross merchantable volume of one sample tree.
type TreeVolume struct {
	CubicFeet float64
	BoardFeet float64
	// Computable is false when the tree has no usable height; both volumes
	// are then reported as zero.
	Computable bool
}

// VolumeCalculator resolves the volume equation for a tree and applies it.
// Resolution order: the tree's own equation, then the species mapping, then
// the default equation. A nil *VolumeCalculator uses the default equation for
// every tree.
type VolumeCalculator struct {
	defaultEquation domain.VolumeEquation
	bySpecies       map[string]domain.VolumeEquation
}

// NewVolumeCalculator creates a calculator with the given default equation
// and species-specific overrides keyed by species code. The map is copied and
// codes are matched case-insensitively.
func NewVolumeCalculator(
	defaultEquation domain.VolumeEquation,
	bySpecies map[string]domain.VolumeEquation,
) *VolumeCalculator {
	species := make(map[string]domain.VolumeEquation, len(bySpecies))
	for code, eq := range bySpecies {
		species[normalizeCode(code)] = eq
	}
	return &VolumeCalculator{
		defaultEquation: defaultEquation,
		bySpecies:       species,
	}
}

// DefaultVolumeCalculator returns a calculator that uses the general-purpose
// equation for all species.
func DefaultVolumeCalculator() *VolumeCalculator {
	return NewVolumeCalculator(domain.DefaultVolumeEquation(), nil)
}

// EquationFor returns the equation that applies to tree.
func (c *VolumeCalculator) EquationFor(tree *domain.Tree) domain.VolumeEquation {
	if tree.VolumeEquation != nil {
		return *tree.VolumeEquation
	}
	if c == nil {
		return domain.DefaultVolumeEquation()
	}
	if eq, ok := c.bySpecies[normalizeCode(tree.Species.Code)]; ok {
		return eq
	}
	return c.defaultEquation
}

// Volume computes cubic-foot and board-foot volume for a single tree, net of
// any recorded defect. Degenerate input yields zero volume, never an error.
func (c *VolumeCalculator) Volume(tree *domain.Tree) TreeVolume {
	if tree.Height == nil || *tree.Height <= 0 || tree.DBH <= 0 {
		return TreeVolume{}
	}

	eq := c.EquationFor(tree)
	height := *tree.Height

	soundFraction := 1.0
	if tree.Defect != nil {
		soundFraction = 1 - *tree.Defect
	}

	return TreeVolume{
		CubicFeet:  cubicFeetVolume(eq, tree.DBH, height) * soundFraction,
		BoardFeet:  boardFeetVolume(eq, tree.DBH, height) * soundFraction,
		Computable: true,
	}
}

// cubicFeetVolume applies the combined-variable equation V = b1 × D² × H.
func cubicFeetVolume(eq domain.VolumeEquation, dbh, height float64) float64 {
	return eq.CuftCoefficient * dbh * dbh * height
}

// boardFeetVolume applies the Scribner approximation V = b1 × D² × H − b2 × D.
// Stems below the merchantability diameter carry no board-foot volume.
func boardFeetVolume(eq domain.VolumeEquation, dbh, height float64) float64 {
	if dbh < eq.BdftMinDBH {
		return 0
	}
	return math.Max(0, eq.BdftCoefficient*dbh*dbh*height-eq.BdftDBHCoefficient*dbh)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
