// Package xyz writes atomic structures in the extended-XYZ format used
// by machine-learned potential training pipelines.
package xyz

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sciforge/ink/internal/vasp"
)

// DefaultOutput is the file name training-set collection writes to.
const DefaultOutput = "dftsets.xyz"

// WriteFrames writes one extended-XYZ frame per structure. Each frame
// carries the lattice and species/position properties in its comment line.
func WriteFrames(w io.Writer, structures []*vasp.Structure) error {
	bw := bufio.NewWriter(w)
	for _, s := range structures {
		if err := writeFrame(bw, s); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes structures to path in extended-XYZ format.
func WriteFile(path string, structures []*vasp.Structure) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteFrames(f, structures); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeFrame(w *bufio.Writer, s *vasp.Structure) error {
	if _, err := fmt.Fprintf(w, "%d\n", s.NumSites()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Lattice=\"%s\" Properties=species:S:1:pos:R:3 pbc=\"T T T\"\n",
		latticeString(s.Lattice)); err != nil {
		return err
	}
	cart := s.CartesianCoords()
	for i, sym := range s.Species {
		if _, err := fmt.Fprintf(w, "%-2s %16.8f %16.8f %16.8f\n",
			sym, cart[i][0], cart[i][1], cart[i][2]); err != nil {
			return err
		}
	}
	return nil
}

func latticeString(lattice [3][3]float64) string {
	out := ""
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if out != "" {
				out += " "
			}
			out += fmt.Sprintf("%.8f", lattice[i][j])
		}
	}
	return out
}

// Collect reads every path that parses as a POSCAR-format structure and
// returns the structures in input order. Unreadable files are skipped and
// reported through skip, directories and missing paths are skipped
// silently, matching a scan over mixed calculation outputs.
func Collect(paths []string, skip func(path string, err error)) []*vasp.Structure {
	var structures []*vasp.Structure
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		s, err := vasp.ReadStructure(path)
		if err != nil {
			if skip != nil {
				skip(path, err)
			}
			continue
		}
		structures = append(structures, s)
	}
	return structures
}
