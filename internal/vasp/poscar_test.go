package vasp

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siPoscar = `Si2
1.0
  0.000000 2.715000 2.715000
  2.715000 0.000000 2.715000
  2.715000 2.715000 0.000000
Si
2
Direct
  0.00 0.00 0.00
  0.25 0.25 0.25
`

const gaAsCartesianPoscar = `GaAs
2.0
  0.0 1.41340 1.41340
  1.41340 0.0 1.41340
  1.41340 1.41340 0.0
Ga As
1 1
Cartesian
  0.0 0.0 0.0
  0.70670 0.70670 0.70670
`

func TestParsePOSCAR(t *testing.T) {
	s, err := ParsePOSCAR(strings.NewReader(siPoscar))
	require.NoError(t, err)

	assert.Equal(t, "Si2", s.Comment)
	assert.Equal(t, 2, s.NumSites())
	assert.Equal(t, []string{"Si", "Si"}, s.Species)
	assert.InDelta(t, 2.715, s.Lattice[0][1], 1e-9)

	symbols, counts := s.Elements()
	assert.Equal(t, []string{"Si"}, symbols)
	assert.Equal(t, []int{2}, counts)
	assert.Equal(t, []int{1, 1}, s.TypeIndices())
}

func TestParsePOSCARScaleAppliesToLattice(t *testing.T) {
	s, err := ParsePOSCAR(strings.NewReader(gaAsCartesianPoscar))
	require.NoError(t, err)

	// Scale 2.0 doubles the raw lattice rows.
	assert.InDelta(t, 2.8268, s.Lattice[0][1], 1e-9)
}

func TestParsePOSCARCartesianConversion(t *testing.T) {
	s, err := ParsePOSCAR(strings.NewReader(gaAsCartesianPoscar))
	require.NoError(t, err)

	// The second site sits at (1/4, 1/4, 1/4) in fractional coordinates.
	for j := 0; j < 3; j++ {
		assert.InDelta(t, 0.25, s.Coords[1][j], 1e-4, "coordinate %d", j)
	}
}

func TestParsePOSCARSelectiveDynamics(t *testing.T) {
	input := `Si
1.0
  5.0 0.0 0.0
  0.0 5.0 0.0
  0.0 0.0 5.0
Si
1
Selective dynamics
Direct
  0.1 0.2 0.3 T T F
`
	s, err := ParsePOSCAR(strings.NewReader(input))
	require.NoError(t, err)
	assert.InDelta(t, 0.3, s.Coords[0][2], 1e-9)
}

func TestParsePOSCARErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "truncated lattice", input: "c\n1.0\n1 0 0\n"},
		{name: "vasp4 without symbols", input: "c\n1.0\n5 0 0\n0 5 0\n0 0 5\n2\nDirect\n"},
		{name: "count mismatch", input: "c\n1.0\n5 0 0\n0 5 0\n0 0 5\nSi O\n1\nDirect\n0 0 0\n"},
		{name: "missing coordinates", input: "c\n1.0\n5 0 0\n0 5 0\n0 0 5\nSi\n2\nDirect\n0 0 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePOSCAR(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestWritePOSCARRoundTrip(t *testing.T) {
	s, err := ParsePOSCAR(strings.NewReader(siPoscar))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePOSCAR(&buf, s))

	got, err := ParsePOSCAR(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.Species, got.Species)
	for i := range s.Coords {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, s.Coords[i][j], got.Coords[i][j], 1e-9)
		}
	}
}

func TestReciprocalNormsCubic(t *testing.T) {
	s := &Structure{
		Lattice: [3][3]float64{{5, 0, 0}, {0, 5, 0}, {0, 0, 5}},
		Species: []string{"Na"},
		Coords:  [][3]float64{{0, 0, 0}},
	}

	norms, err := s.ReciprocalNorms()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 2*math.Pi/5, norms[i], 1e-12)
	}
}

func TestVolumeAndParameters(t *testing.T) {
	s := &Structure{
		Lattice: [3][3]float64{{3, 0, 0}, {0, 4, 0}, {0, 0, 5}},
	}
	assert.InDelta(t, 60.0, s.Volume(), 1e-9)

	lengths, angles := s.LatticeParameters()
	assert.InDelta(t, 3, lengths[0], 1e-9)
	assert.InDelta(t, 4, lengths[1], 1e-9)
	assert.InDelta(t, 5, lengths[2], 1e-9)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 90, angles[i], 1e-9)
	}
}
