// Package kpath selects high-symmetry reciprocal-space paths for line-mode
// band and phonon calculations. The path is chosen from the lattice family
// recognized in the cell parameters; centering detection is out of scope,
// so conventional simple-lattice paths are used.
package kpath

import (
	"math"

	"github.com/sciforge/ink/internal/vasp"
)

// Family is a recognized Bravais lattice family.
type Family string

// Recognized families. Anything else falls back to FamilyTriclinic.
const (
	FamilyCubic        Family = "cubic"
	FamilyHexagonal    Family = "hexagonal"
	FamilyTetragonal   Family = "tetragonal"
	FamilyOrthorhombic Family = "orthorhombic"
	FamilyTriclinic    Family = "triclinic"
)

// Tolerances for comparing cell lengths (relative) and angles (degrees).
const (
	lengthTol = 1e-3
	angleTol  = 0.5
)

// Classify recognizes the lattice family of the structure from its cell
// parameters.
func Classify(s *vasp.Structure) Family {
	lengths, angles := s.LatticeParameters()

	eqLen := func(x, y float64) bool {
		return math.Abs(x-y) <= lengthTol*math.Max(x, y)
	}
	eqAngle := func(x, y float64) bool {
		return math.Abs(x-y) <= angleTol
	}

	allRight := eqAngle(angles[0], 90) && eqAngle(angles[1], 90) && eqAngle(angles[2], 90)

	switch {
	case allRight && eqLen(lengths[0], lengths[1]) && eqLen(lengths[1], lengths[2]):
		return FamilyCubic
	case eqAngle(angles[0], 90) && eqAngle(angles[1], 90) && eqAngle(angles[2], 120) &&
		eqLen(lengths[0], lengths[1]):
		return FamilyHexagonal
	case allRight && eqLen(lengths[0], lengths[1]):
		return FamilyTetragonal
	case allRight:
		return FamilyOrthorhombic
	default:
		return FamilyTriclinic
	}
}

// PathFor returns the standard high-symmetry path for the structure's
// lattice family.
func PathFor(s *vasp.Structure) []vasp.PathPoint {
	return paths[Classify(s)]
}

// Standard simple-lattice paths (Setyawan-Curtarolo conventions).
var paths = map[Family][]vasp.PathPoint{
	FamilyCubic: {
		{Label: "GAMMA", Coords: [3]float64{0, 0, 0}},
		{Label: "X", Coords: [3]float64{0, 0.5, 0}},
		{Label: "M", Coords: [3]float64{0.5, 0.5, 0}},
		{Label: "GAMMA", Coords: [3]float64{0, 0, 0}},
		{Label: "R", Coords: [3]float64{0.5, 0.5, 0.5}},
		{Label: "X", Coords: [3]float64{0, 0.5, 0}},
	},
	FamilyHexagonal: {
		{Label: "GAMMA", Coords: [3]float64{0, 0, 0}},
		{Label: "M", Coords: [3]float64{0.5, 0, 0}},
		{Label: "K", Coords: [3]float64{1.0 / 3, 1.0 / 3, 0}},
		{Label: "GAMMA", Coords: [3]float64{0, 0, 0}},
		{Label: "A", Coords: [3]float64{0, 0, 0.5}},
		{Label: "L", Coords: [3]float64{0.5, 0, 0.5}},
		{Label: "H", Coords: [3]float64{1.0 / 3, 1.0 / 3, 0.5}},
		{Label: "A", Coords: [3]float64{0, 0, 0.5}},
	},
	FamilyTetragonal: {
		{Label: "GAMMA", Coords: [3]float64{0, 0, 0}},
		{Label: "X", Coords: [3]float64{0, 0.5, 0}},
		{Label: "M", Coords: [3]float64{0.5, 0.5, 0}},
		{Label: "GAMMA", Coords: [3]float64{0, 0, 0}},
		{Label: "Z", Coords: [3]float64{0, 0, 0.5}},
		{Label: "R", Coords: [3]float64{0, 0.5, 0.5}},
		{Label: "A", Coords: [3]float64{0.5, 0.5, 0.5}},
		{Label: "Z", Coords: [3]float64{0, 0, 0.5}},
	},
	FamilyOrthorhombic: {
		{Label: "GAMMA", Coords: [3]float64{0, 0, 0}},
		{Label: "X", Coords: [3]float64{0.5, 0, 0}},
		{Label: "S", Coords: [3]float64{0.5, 0.5, 0}},
		{Label: "Y", Coords: [3]float64{0, 0.5, 0}},
		{Label: "GAMMA", Coords: [3]float64{0, 0, 0}},
		{Label: "Z", Coords: [3]float64{0, 0, 0.5}},
		{Label: "U", Coords: [3]float64{0.5, 0, 0.5}},
		{Label: "R", Coords: [3]float64{0.5, 0.5, 0.5}},
		{Label: "T", Coords: [3]float64{0, 0.5, 0.5}},
		{Label: "Z", Coords: [3]float64{0, 0, 0.5}},
	},
	FamilyTriclinic: {
		{Label: "GAMMA", Coords: [3]float64{0, 0, 0}},
		{Label: "X", Coords: [3]float64{0.5, 0, 0}},
		{Label: "GAMMA", Coords: [3]float64{0, 0, 0}},
		{Label: "Y", Coords: [3]float64{0, 0.5, 0}},
		{Label: "GAMMA", Coords: [3]float64{0, 0, 0}},
		{Label: "Z", Coords: [3]float64{0, 0, 0.5}},
	},
}
