package vasp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ParsePOSCAR reads a VASP 5 format POSCAR/CONTCAR. Cartesian coordinates
// are converted to fractional on the way in; selective dynamics flags are
// accepted and discarded.
func ParsePOSCAR(r io.Reader) (*Structure, error) {
	sc := bufio.NewScanner(r)
	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return sc.Text(), nil
	}

	comment, err := next()
	if err != nil {
		return nil, fmt.Errorf("poscar: missing comment line: %w", err)
	}

	scaleLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("poscar: missing scale line: %w", err)
	}
	scale, err := strconv.ParseFloat(strings.TrimSpace(scaleLine), 64)
	if err != nil {
		return nil, fmt.Errorf("poscar: bad scale factor %q: %w", scaleLine, err)
	}

	s := &Structure{Comment: strings.TrimSpace(comment)}
	for i := 0; i < 3; i++ {
		line, err := next()
		if err != nil {
			return nil, fmt.Errorf("poscar: missing lattice vector %d: %w", i+1, err)
		}
		vec, err := parseFloats(line, 3)
		if err != nil {
			return nil, fmt.Errorf("poscar: lattice vector %d: %w", i+1, err)
		}
		for j := 0; j < 3; j++ {
			s.Lattice[i][j] = vec[j] * scale
		}
	}

	symbolLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("poscar: missing element symbols: %w", err)
	}
	symbols := strings.Fields(symbolLine)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("poscar: empty element symbol line")
	}
	if _, err := strconv.Atoi(symbols[0]); err == nil {
		return nil, fmt.Errorf("poscar: VASP 4 format without element symbols is not supported")
	}

	countLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("poscar: missing element counts: %w", err)
	}
	countFields := strings.Fields(countLine)
	if len(countFields) != len(symbols) {
		return nil, fmt.Errorf("poscar: %d element symbols but %d counts", len(symbols), len(countFields))
	}
	total := 0
	counts := make([]int, len(countFields))
	for i, f := range countFields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("poscar: bad element count %q", f)
		}
		counts[i] = n
		total += n
	}

	modeLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("poscar: missing coordinate mode: %w", err)
	}
	mode := strings.TrimSpace(modeLine)
	if len(mode) > 0 && (mode[0] == 'S' || mode[0] == 's') {
		// Selective dynamics: the real mode is on the following line.
		modeLine, err = next()
		if err != nil {
			return nil, fmt.Errorf("poscar: missing coordinate mode after selective dynamics: %w", err)
		}
		mode = strings.TrimSpace(modeLine)
	}
	cartesian := len(mode) > 0 && (mode[0] == 'C' || mode[0] == 'c' || mode[0] == 'K' || mode[0] == 'k')

	for i, sym := range symbols {
		for j := 0; j < counts[i]; j++ {
			s.Species = append(s.Species, sym)
		}
	}

	for i := 0; i < total; i++ {
		line, err := next()
		if err != nil {
			return nil, fmt.Errorf("poscar: missing coordinates for site %d of %d: %w", i+1, total, err)
		}
		vec, err := parseFloats(line, 3)
		if err != nil {
			return nil, fmt.Errorf("poscar: site %d coordinates: %w", i+1, err)
		}
		s.Coords = append(s.Coords, [3]float64{vec[0], vec[1], vec[2]})
	}

	if cartesian {
		if err := s.cartesianToFractional(scale); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// cartesianToFractional converts Coords in place from scaled Cartesian to
// fractional coordinates.
func (s *Structure) cartesianToFractional(scale float64) error {
	recip, err := s.ReciprocalLattice()
	if err != nil {
		return fmt.Errorf("poscar: cannot convert cartesian coordinates: %w", err)
	}
	for i, c := range s.Coords {
		var frac [3]float64
		for j := 0; j < 3; j++ {
			// frac_j = cart . b_j / 2pi with b_j rows of the reciprocal.
			frac[j] = (c[0]*recip[j][0] + c[1]*recip[j][1] + c[2]*recip[j][2]) * scale / (2 * math.Pi)
		}
		s.Coords[i] = frac
	}
	return nil
}

// ReadStructure parses a POSCAR-format file from disk.
func ReadStructure(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ParsePOSCAR(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WritePOSCAR writes the structure in canonical VASP 5 format: scale 1.0,
// grouped element symbols, fractional coordinates.
func WritePOSCAR(w io.Writer, s *Structure) error {
	comment := s.Comment
	if comment == "" {
		symbols, counts := s.Elements()
		parts := make([]string, len(symbols))
		for i := range symbols {
			parts[i] = fmt.Sprintf("%s%d", symbols[i], counts[i])
		}
		comment = strings.Join(parts, " ")
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, comment)
	fmt.Fprintln(bw, "1.0")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(bw, "  %18.14f %18.14f %18.14f\n", s.Lattice[i][0], s.Lattice[i][1], s.Lattice[i][2])
	}

	symbols, counts := s.Elements()
	fmt.Fprintln(bw, strings.Join(symbols, " "))
	countStrs := make([]string, len(counts))
	for i, n := range counts {
		countStrs[i] = strconv.Itoa(n)
	}
	fmt.Fprintln(bw, strings.Join(countStrs, " "))
	fmt.Fprintln(bw, "Direct")

	// Sites grouped by element in Elements() order, matching the symbol line.
	for _, sym := range symbols {
		for i, sp := range s.Species {
			if sp != sym {
				continue
			}
			c := s.Coords[i]
			fmt.Fprintf(bw, "  %18.14f %18.14f %18.14f\n", c[0], c[1], c[2])
		}
	}
	return bw.Flush()
}

// WriteStructureFile writes the structure as POSCAR to path.
func WriteStructureFile(s *Structure, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WritePOSCAR(f, s)
}

// parseFloats parses at least n whitespace-separated floats from line.
func parseFloats(line string, n int) ([]float64, error) {
	fields := strings.Fields(line)
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", fields[i], err)
		}
		out[i] = v
	}
	return out, nil
}
