// Package vasp parses and writes VASP input and output files: POSCAR
// structures, INCAR tag files, KPOINTS meshes, and the OUTCAR/vasprun.xml
// quantities the other generators need.
package vasp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Structure is a periodic crystal: a lattice in Angstrom plus fractional
// site coordinates. Species holds one symbol per site, in file order.
type Structure struct {
	Comment string
	Lattice [3][3]float64
	Species []string
	Coords  [][3]float64
}

// NumSites returns the number of atomic sites.
func (s *Structure) NumSites() int { return len(s.Coords) }

// Elements returns the distinct element symbols in order of first
// appearance, with the per-element site counts.
func (s *Structure) Elements() (symbols []string, counts []int) {
	index := map[string]int{}
	for _, sp := range s.Species {
		i, ok := index[sp]
		if !ok {
			i = len(symbols)
			index[sp] = i
			symbols = append(symbols, sp)
			counts = append(counts, 0)
		}
		counts[i]++
	}
	return symbols, counts
}

// TypeIndices maps each site to the 1-based index of its element in
// Elements() order, the numbering ShengBTE expects.
func (s *Structure) TypeIndices() []int {
	symbols, _ := s.Elements()
	index := map[string]int{}
	for i, sym := range symbols {
		index[sym] = i + 1
	}
	types := make([]int, len(s.Species))
	for i, sp := range s.Species {
		types[i] = index[sp]
	}
	return types
}

// latticeDense returns the lattice as a gonum matrix with rows a, b, c.
func (s *Structure) latticeDense() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, s.Lattice[i][j])
		}
	}
	return m
}

// Volume returns the cell volume in cubic Angstrom.
func (s *Structure) Volume() float64 {
	return math.Abs(mat.Det(s.latticeDense()))
}

// ReciprocalLattice returns the reciprocal lattice vectors as rows,
// including the 2*pi factor (physics convention, matching VASP).
func (s *Structure) ReciprocalLattice() ([3][3]float64, error) {
	var inv mat.Dense
	if err := inv.Inverse(s.latticeDense()); err != nil {
		return [3][3]float64{}, fmt.Errorf("singular lattice: %w", err)
	}

	// Rows of 2*pi * (L^-1)^T are the reciprocal vectors b1, b2, b3.
	var recip [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			recip[i][j] = 2 * math.Pi * inv.At(j, i)
		}
	}
	return recip, nil
}

// ReciprocalNorms returns |b1|, |b2|, |b3| with the 2*pi factor included.
func (s *Structure) ReciprocalNorms() ([3]float64, error) {
	recip, err := s.ReciprocalLattice()
	if err != nil {
		return [3]float64{}, err
	}
	var norms [3]float64
	for i := 0; i < 3; i++ {
		norms[i] = math.Sqrt(recip[i][0]*recip[i][0] + recip[i][1]*recip[i][1] + recip[i][2]*recip[i][2])
	}
	return norms, nil
}

// LatticeParameters returns the cell lengths a, b, c in Angstrom and the
// angles alpha, beta, gamma in degrees.
func (s *Structure) LatticeParameters() (lengths [3]float64, angles [3]float64) {
	rows := s.Lattice
	norm := func(v [3]float64) float64 {
		return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	}
	dot := func(u, v [3]float64) float64 {
		return u[0]*v[0] + u[1]*v[1] + u[2]*v[2]
	}
	for i := 0; i < 3; i++ {
		lengths[i] = norm(rows[i])
	}
	// alpha between b and c, beta between a and c, gamma between a and b.
	pairs := [3][2]int{{1, 2}, {0, 2}, {0, 1}}
	for i, p := range pairs {
		cos := dot(rows[p[0]], rows[p[1]]) / (lengths[p[0]] * lengths[p[1]])
		angles[i] = math.Acos(math.Max(-1, math.Min(1, cos))) * 180 / math.Pi
	}
	return lengths, angles
}

// CartesianCoords returns the site coordinates in Angstrom.
func (s *Structure) CartesianCoords() [][3]float64 {
	cart := make([][3]float64, len(s.Coords))
	for i, f := range s.Coords {
		for j := 0; j < 3; j++ {
			cart[i][j] = f[0]*s.Lattice[0][j] + f[1]*s.Lattice[1][j] + f[2]*s.Lattice[2][j]
		}
	}
	return cart
}
