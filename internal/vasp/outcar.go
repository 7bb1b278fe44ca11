package vasp

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Outcar holds the OUTCAR quantities the generators consume: Born
// effective charges and the macroscopic dielectric tensor for ShengBTE's
// non-analytic correction, and the elastic tensor for AMSET.
type Outcar struct {
	// BornCharges is one 3x3 tensor per ion, in POSCAR site order.
	BornCharges [][3][3]float64

	// DielectricTensor is the macroscopic static dielectric tensor.
	DielectricTensor [3][3]float64

	// ElasticTensor is the 6x6 total elastic moduli in GPa.
	ElasticTensor [6][6]float64

	hasBorn       bool
	hasDielectric bool
	hasElastic    bool
}

// Section markers written by VASP.
const (
	bornHeader       = "BORN EFFECTIVE CHARGES"
	dielectricHeader = "MACROSCOPIC STATIC DIELECTRIC TENSOR"
	elasticHeader    = "TOTAL ELASTIC MODULI (kBar)"
)

// HasBornCharges reports whether a Born charge section was found.
func (o *Outcar) HasBornCharges() bool { return o.hasBorn }

// HasDielectricTensor reports whether a dielectric tensor was found.
func (o *Outcar) HasDielectricTensor() bool { return o.hasDielectric }

// HasElasticTensor reports whether an elastic moduli section was found.
func (o *Outcar) HasElasticTensor() bool { return o.hasElastic }

// ReadOutcar scans an OUTCAR file for the supported sections. Later
// occurrences of a section replace earlier ones, so the converged values of
// the final ionic step win.
func ReadOutcar(path string) (*Outcar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	o := &Outcar{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// parseBorn reads ahead to find the end of the ion blocks; carry holds
	// the line it stopped on so section headers are not swallowed.
	carry := ""
	for {
		var line string
		if carry != "" {
			line = carry
			carry = ""
		} else {
			if !sc.Scan() {
				break
			}
			line = sc.Text()
		}

		switch {
		case strings.Contains(line, bornHeader):
			rest, err := o.parseBorn(sc)
			if err != nil {
				return nil, fmt.Errorf("%s: born charges: %w", path, err)
			}
			carry = rest
		case strings.Contains(line, dielectricHeader):
			if err := o.parseDielectric(sc); err != nil {
				return nil, fmt.Errorf("%s: dielectric tensor: %w", path, err)
			}
		case strings.Contains(line, elasticHeader):
			if err := o.parseElastic(sc); err != nil {
				return nil, fmt.Errorf("%s: elastic moduli: %w", path, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return o, nil
}

// parseBorn reads "ion N" blocks of three numbered rows each. It returns
// the first line that belongs to neither an ion block nor the separator, so
// the caller can re-examine it.
func (o *Outcar) parseBorn(sc *bufio.Scanner) (string, error) {
	var charges [][3][3]float64
	var stopped string
	for sc.Scan() {
		raw := sc.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "----") {
			continue
		}
		if !strings.HasPrefix(line, "ion") {
			stopped = raw
			break
		}

		var tensor [3][3]float64
		for row := 0; row < 3; row++ {
			if !sc.Scan() {
				return "", fmt.Errorf("truncated ion block %d", len(charges)+1)
			}
			fields := strings.Fields(sc.Text())
			// Rows are "axis x y z" with a leading 1-based axis index.
			if len(fields) < 4 {
				return "", fmt.Errorf("short row %q in ion block %d", sc.Text(), len(charges)+1)
			}
			for col := 0; col < 3; col++ {
				v, err := strconv.ParseFloat(fields[col+1], 64)
				if err != nil {
					return "", fmt.Errorf("bad value %q: %w", fields[col+1], err)
				}
				tensor[row][col] = v
			}
		}
		charges = append(charges, tensor)
	}
	if len(charges) == 0 {
		return "", fmt.Errorf("no ion blocks found")
	}
	o.BornCharges = charges
	o.hasBorn = true
	return stopped, nil
}

// parseDielectric reads the three tensor rows after the separator line.
func (o *Outcar) parseDielectric(sc *bufio.Scanner) error {
	rows := 0
	for rows < 3 && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "----") {
			continue
		}
		vec, err := parseFloats(line, 3)
		if err != nil {
			return err
		}
		for col := 0; col < 3; col++ {
			o.DielectricTensor[rows][col] = vec[col]
		}
		rows++
	}
	if rows != 3 {
		return fmt.Errorf("expected 3 rows, got %d", rows)
	}
	o.hasDielectric = true
	return nil
}

// parseElastic reads the six labelled moduli rows and converts kBar to GPa.
func (o *Outcar) parseElastic(sc *bufio.Scanner) error {
	rows := 0
	for rows < 6 && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "----") || strings.HasPrefix(line, "Direction") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 7 {
			return fmt.Errorf("short row %q", line)
		}
		for col := 0; col < 6; col++ {
			v, err := strconv.ParseFloat(fields[col+1], 64)
			if err != nil {
				return fmt.Errorf("bad value %q: %w", fields[col+1], err)
			}
			o.ElasticTensor[rows][col] = v / 10 // kBar to GPa
		}
		rows++
	}
	if rows != 6 {
		return fmt.Errorf("expected 6 rows, got %d", rows)
	}
	o.hasElastic = true
	return nil
}
