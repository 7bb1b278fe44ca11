package phonopy

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBandYAML = `natom: 1
labels:
- ["$\\Gamma$", "X"]
- ["X", "M"]
segment_nqpoint:
- 2
- 2
phonon:
- q-position: [0.0, 0.0, 0.0]
  distance: 0.0
  band:
  - frequency: 0.0
  - frequency: 0.0
  - frequency: 0.0
- q-position: [0.5, 0.0, 0.0]
  distance: 0.25
  band:
  - frequency: 3.1
  - frequency: 3.1
  - frequency: 5.2
- q-position: [0.5, 0.0, 0.0]
  distance: 0.25
  band:
  - frequency: 3.1
  - frequency: 3.1
  - frequency: 5.2
- q-position: [0.5, 0.5, 0.0]
  distance: 0.5
  band:
  - frequency: 4.4
  - frequency: 4.4
  - frequency: 6.0
`

func writeBandYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "band.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadBand(t *testing.T) {
	band, err := ReadBand(writeBandYAML(t, sampleBandYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"TA1", "TA2", "LA"}, band.Branches)
	// 4 q-points plus a gap row after each of the two segments.
	require.Len(t, band.Distances, 6)
	require.Len(t, band.Frequencies, 6)

	assert.Equal(t, 0.25, band.Distances[1])
	assert.True(t, math.IsNaN(band.Distances[2])) // gap row
	assert.True(t, math.IsNaN(band.Frequencies[2][0]))
	assert.Equal(t, 5.2, band.Frequencies[1][2])
	assert.True(t, math.IsNaN(band.Frequencies[5][1]))

	require.Len(t, band.Ticks, 2)
	assert.Equal(t, "$\\Gamma$", band.Ticks[0].StartLabel)
	assert.Equal(t, "X", band.Ticks[0].EndLabel)
	assert.Equal(t, 0.0, band.Ticks[0].Start)
	assert.Equal(t, 0.25, band.Ticks[0].End)
	assert.Equal(t, 0.25, band.Ticks[1].Start)
	assert.Equal(t, 0.5, band.Ticks[1].End)
}

func TestReadBandValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing labels", "natom: 1\nsegment_nqpoint: [1]\nphonon: [{distance: 0.0, band: [{frequency: 0}, {frequency: 0}, {frequency: 0}]}]\n", "missing labels"},
		{"missing natom", "labels: [[\"A\", \"B\"]]\nsegment_nqpoint: [1]\nphonon: [{distance: 0.0, band: []}]\n", "missing natom"},
		{"label segment mismatch", "natom: 1\nlabels: [[\"A\", \"B\"], [\"B\", \"C\"]]\nsegment_nqpoint: [1]\nphonon: [{distance: 0.0, band: [{frequency: 0}, {frequency: 0}, {frequency: 0}]}]\n", "labels for"},
		{"segment sum mismatch", "natom: 1\nlabels: [[\"A\", \"B\"]]\nsegment_nqpoint: [3]\nphonon: [{distance: 0.0, band: [{frequency: 0}, {frequency: 0}, {frequency: 0}]}]\n", "sums to"},
		{"band count mismatch", "natom: 2\nlabels: [[\"A\", \"B\"]]\nsegment_nqpoint: [1]\nphonon: [{distance: 0.0, band: [{frequency: 0}]}]\n", "bands"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBand(writeBandYAML(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExportCSV(t *testing.T) {
	band, err := ReadBand(writeBandYAML(t, sampleBandYAML))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "band.csv")
	require.NoError(t, band.ExportCSV(out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"distance", "TA1", "TA2", "LA"}, rows[0])
	assert.Equal(t, "3.1000000000", rows[2][1])
	// Gap row is entirely empty, distance cell included.
	assert.Equal(t, []string{"", "", "", ""}, rows[3])
}
