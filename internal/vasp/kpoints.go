package vasp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
)

// Kpoints represents either an automatic gamma-centered mesh or an explicit
// line-mode path through high-symmetry points.
type Kpoints struct {
	Comment string

	// Gamma-centered mesh; Grid is zero for line-mode.
	Grid [3]int

	// Line-mode path: consecutive pairs of Segments are joined by
	// PointsPerSegment sampled k-points.
	PointsPerSegment int
	Segments         []PathPoint
}

// PathPoint is one labelled vertex of a line-mode path, in fractional
// reciprocal coordinates.
type PathPoint struct {
	Label  string
	Coords [3]float64
}

// GammaMesh returns an automatic gamma-centered mesh KPOINTS.
func GammaMesh(nx, ny, nz int) *Kpoints {
	return &Kpoints{
		Comment: "Automatic gamma-centered mesh",
		Grid:    [3]int{nx, ny, nz},
	}
}

// MeshFromResolution sizes a gamma-centered mesh from the structure's
// reciprocal lattice using the vaspkit KPT-resolved formula
//
//	N_i = max(1, floor(|b_i| / (kpr * 2*pi)))
//
// where |b_i| carry the 2*pi factor, so kpr is in 1/Angstrom.
func MeshFromResolution(s *Structure, kpr float64) (*Kpoints, error) {
	if kpr <= 0 {
		return nil, fmt.Errorf("kpoints: resolution must be positive, got %g", kpr)
	}
	norms, err := s.ReciprocalNorms()
	if err != nil {
		return nil, fmt.Errorf("kpoints: %w", err)
	}
	var grid [3]int
	for i := 0; i < 3; i++ {
		n := int(math.Floor(norms[i] / kpr / (2 * math.Pi)))
		if n < 1 {
			n = 1
		}
		grid[i] = n
	}
	kp := GammaMesh(grid[0], grid[1], grid[2])
	kp.Comment = fmt.Sprintf("Gamma-centered mesh, resolution %g 1/Angstrom", kpr)
	return kp, nil
}

// LinePath returns a line-mode KPOINTS over the given path vertices.
func LinePath(segments []PathPoint, pointsPerSegment int) *Kpoints {
	return &Kpoints{
		Comment:          "High-symmetry line path",
		PointsPerSegment: pointsPerSegment,
		Segments:         segments,
	}
}

// Write emits the KPOINTS file.
func (kp *Kpoints) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, kp.Comment)

	if len(kp.Segments) > 0 {
		fmt.Fprintln(bw, kp.PointsPerSegment)
		fmt.Fprintln(bw, "Line-mode")
		fmt.Fprintln(bw, "Reciprocal")
		// Consecutive vertices become start/end pairs of each segment.
		for i := 0; i+1 < len(kp.Segments); i++ {
			a, b := kp.Segments[i], kp.Segments[i+1]
			fmt.Fprintf(bw, "  %10.6f %10.6f %10.6f ! %s\n", a.Coords[0], a.Coords[1], a.Coords[2], a.Label)
			fmt.Fprintf(bw, "  %10.6f %10.6f %10.6f ! %s\n\n", b.Coords[0], b.Coords[1], b.Coords[2], b.Label)
		}
		return bw.Flush()
	}

	fmt.Fprintln(bw, 0)
	fmt.Fprintln(bw, "Gamma")
	fmt.Fprintf(bw, "%d %d %d\n", kp.Grid[0], kp.Grid[1], kp.Grid[2])
	fmt.Fprintln(bw, "0 0 0")
	return bw.Flush()
}

// WriteFile writes the KPOINTS to path.
func (kp *Kpoints) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return kp.Write(f)
}
