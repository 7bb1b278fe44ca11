// Package phonopy reads Phonopy band-structure output (band.yaml) and
// exports it as a flat dispersion table suitable for plotting.
package phonopy

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sciforge/ink/internal/bte"
)

// bandYAML mirrors the subset of band.yaml the dispersion table needs.
type bandYAML struct {
	NAtom          int         `yaml:"natom"`
	Labels         [][2]string `yaml:"labels"`
	SegmentNQPoint []int       `yaml:"segment_nqpoint"`
	Phonon         []struct {
		Distance float64 `yaml:"distance"`
		Band     []struct {
			Frequency float64 `yaml:"frequency"`
		} `yaml:"band"`
	} `yaml:"phonon"`
}

// Tick marks one high-symmetry segment on the distance axis.
type Tick struct {
	StartLabel string
	EndLabel   string
	Start      float64
	End        float64
}

// Band is a phonon dispersion along a high-symmetry path. Rows at
// segment boundaries carry NaN in every column so plots break between
// disjoint path segments.
type Band struct {
	Branches    []string
	Distances   []float64
	Frequencies [][]float64 // indexed [row][branch]
	Ticks       []Tick
}

// ReadBand parses a Phonopy band.yaml file.
func ReadBand(path string) (*Band, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc bandYAML
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.NAtom <= 0 {
		return nil, fmt.Errorf("%s: missing natom", path)
	}
	if len(doc.Labels) == 0 {
		return nil, fmt.Errorf("%s: missing labels", path)
	}
	if len(doc.SegmentNQPoint) == 0 {
		return nil, fmt.Errorf("%s: missing segment_nqpoint", path)
	}
	if len(doc.Labels) != len(doc.SegmentNQPoint) {
		return nil, fmt.Errorf("%s: %d labels for %d segments", path, len(doc.Labels), len(doc.SegmentNQPoint))
	}
	if len(doc.Phonon) == 0 {
		return nil, fmt.Errorf("%s: missing phonon data", path)
	}

	nbranch := 3 * doc.NAtom
	b := &Band{Branches: bte.BranchLabels(doc.NAtom)}

	// Segment end indices into the flat phonon list, 1-based like the
	// q-point counter.
	ends := make(map[int]bool)
	total := 0
	for _, n := range doc.SegmentNQPoint {
		total += n
		ends[total] = true
	}
	if total != len(doc.Phonon) {
		return nil, fmt.Errorf("%s: segment_nqpoint sums to %d, have %d q-points", path, total, len(doc.Phonon))
	}

	gap := make([]float64, nbranch)
	for i := range gap {
		gap[i] = math.NaN()
	}
	for i, q := range doc.Phonon {
		if len(q.Band) != nbranch {
			return nil, fmt.Errorf("%s: q-point %d has %d bands, want %d", path, i+1, len(q.Band), nbranch)
		}
		freqs := make([]float64, nbranch)
		for j, band := range q.Band {
			freqs[j] = band.Frequency
		}
		b.Distances = append(b.Distances, q.Distance)
		b.Frequencies = append(b.Frequencies, freqs)
		if ends[i+1] {
			b.Distances = append(b.Distances, math.NaN())
			b.Frequencies = append(b.Frequencies, gap)
		}
	}

	start := 0
	for i, n := range doc.SegmentNQPoint {
		end := start + n
		b.Ticks = append(b.Ticks, Tick{
			StartLabel: doc.Labels[i][0],
			EndLabel:   doc.Labels[i][1],
			Start:      doc.Phonon[start].Distance,
			End:        doc.Phonon[end-1].Distance,
		})
		start = end
	}
	return b, nil
}

// ExportCSV writes the dispersion as CSV, distance first and one branch
// per column. Gap rows are written with every cell empty.
func (b *Band) ExportCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	header := append([]string{"distance"}, b.Branches...)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	for i, dist := range b.Distances {
		row := make([]string, 0, 1+len(b.Branches))
		if math.IsNaN(dist) {
			row = append(row, "")
		} else {
			row = append(row, strconv.FormatFloat(dist, 'f', 10, 64))
		}
		for _, v := range b.Frequencies[i] {
			if math.IsNaN(v) {
				row = append(row, "")
			} else {
				row = append(row, strconv.FormatFloat(v, 'f', 10, 64))
			}
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
