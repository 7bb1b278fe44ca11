// Package bte reads ShengBTE output files into typed tables: phonon
// frequencies (BTE.omega), thermal conductivity tensors
// (BTE.KappaTensorVsT_*), phonon DOS (BTE.dos), and heat capacity
// (BTE.cvVsT). Angular frequencies in rad/ps are converted to THz.
package bte

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// File names written by ShengBTE.
const (
	OmegaFile     = "BTE.omega"
	KappaConvFile = "BTE.KappaTensorVsT_CONV"
	KappaRTAFile  = "BTE.KappaTensorVsT_RTA"
	DOSFile       = "BTE.dos"
	CvFile        = "BTE.cvVsT"
)

// Directions orders the nine tensor components as ShengBTE writes them.
var Directions = []string{"xx", "xy", "xz", "yx", "yy", "yz", "zx", "zy", "zz"}

// Omega is the phonon spectrum on the q-point grid: one row per q-point,
// one column per branch, frequencies in THz.
type Omega struct {
	Branches    []string
	Frequencies [][]float64
}

// NAtoms returns the atom count implied by the branch count.
func (o *Omega) NAtoms() int { return len(o.Branches) / 3 }

// BranchLabels names the 3N phonon branches of a 3-dimensional system:
// two transverse acoustic, one longitudinal acoustic, and 3N-3 optical.
func BranchLabels(natoms int) []string {
	labels := []string{"TA1", "TA2", "LA"}
	for i := 0; i < 3*natoms-3; i++ {
		labels = append(labels, fmt.Sprintf("OP%d", i+1))
	}
	return labels
}

// ReadOmega reads BTE.omega from a ShengBTE run directory.
func ReadOmega(dir string) (*Omega, error) {
	rows, err := readTable(filepath.Join(dir, OmegaFile))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", filepath.Join(dir, OmegaFile))
	}
	ncols := len(rows[0])
	if ncols%3 != 0 {
		return nil, fmt.Errorf("%s: %d columns is not a multiple of 3", filepath.Join(dir, OmegaFile), ncols)
	}

	o := &Omega{Branches: BranchLabels(ncols / 3)}
	for i, row := range rows {
		if len(row) != ncols {
			return nil, fmt.Errorf("%s: row %d has %d columns, want %d", filepath.Join(dir, OmegaFile), i+1, len(row), ncols)
		}
		freqs := make([]float64, ncols)
		for j, w := range row {
			freqs[j] = w / (2 * math.Pi)
		}
		o.Frequencies = append(o.Frequencies, freqs)
	}
	return o, nil
}

// KappaPoint is the thermal conductivity tensor at one temperature.
type KappaPoint struct {
	T      float64
	Tensor [9]float64 // Directions order
	Iter   int
}

// Component returns the tensor component for a direction label like "xx".
func (k *KappaPoint) Component(direction string) (float64, error) {
	for i, d := range Directions {
		if d == direction {
			return k.Tensor[i], nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", direction)
}

// ReadKappa reads a BTE.KappaTensorVsT_* file. The trailing iteration
// column of the CONV and RTA variants is optional so the small-grain file
// parses too.
func ReadKappa(dir, file string) ([]KappaPoint, error) {
	path := filepath.Join(dir, file)
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	var points []KappaPoint
	for i, row := range rows {
		if len(row) != 10 && len(row) != 11 {
			return nil, fmt.Errorf("%s: row %d has %d columns, want 10 or 11", path, i+1, len(row))
		}
		p := KappaPoint{T: row[0]}
		copy(p.Tensor[:], row[1:10])
		if len(row) == 11 {
			p.Iter = int(row[10])
		}
		points = append(points, p)
	}
	return points, nil
}

// DOSPoint is one row of the phonon density of states.
type DOSPoint struct {
	Omega float64 // THz
	DOS   float64
}

// ReadDOS reads BTE.dos and converts frequencies to THz.
func ReadDOS(dir string) ([]DOSPoint, error) {
	rows, err := readTable(filepath.Join(dir, DOSFile))
	if err != nil {
		return nil, err
	}

	var points []DOSPoint
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("%s: row %d has %d columns, want 2", filepath.Join(dir, DOSFile), i+1, len(row))
		}
		points = append(points, DOSPoint{Omega: row[0] / (2 * math.Pi), DOS: row[1]})
	}
	return points, nil
}

// CvPoint is the volumetric heat capacity at one temperature.
type CvPoint struct {
	T  float64
	Cv float64
}

// ReadCv reads BTE.cvVsT.
func ReadCv(dir string) ([]CvPoint, error) {
	rows, err := readTable(filepath.Join(dir, CvFile))
	if err != nil {
		return nil, err
	}

	var points []CvPoint
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("%s: row %d has %d columns, want 2", filepath.Join(dir, CvFile), i+1, len(row))
		}
		points = append(points, CvPoint{T: row[0], Cv: row[1]})
	}
	return points, nil
}

// readTable parses a whitespace-separated numeric file, skipping blank
// lines and # comments.
func readTable(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows [][]float64
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d: bad value %q: %w", path, lineNo, field, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
