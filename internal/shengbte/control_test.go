package shengbte

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sciforge/ink/internal/vasp"
)

func inAsStructure() *vasp.Structure {
	return &vasp.Structure{
		Comment: "InAs",
		Lattice: [3][3]float64{{0, 3.029, 3.029}, {3.029, 0, 3.029}, {3.029, 3.029, 0}},
		Species: []string{"In", "As"},
		Coords:  [][3]float64{{0, 0, 0}, {0.25, 0.25, 0.25}},
	}
}

func TestControlDefaults(t *testing.T) {
	c, err := NewControl(inAsStructure(), Options{Supercell: [3]int{5, 5, 5}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))
	out := buf.String()

	assert.Contains(t, out, "&allocations\n")
	assert.Contains(t, out, "nelements=2")
	assert.Contains(t, out, "natoms=2")
	assert.Contains(t, out, "ngrid(:)=15 15 15")
	assert.Contains(t, out, "lfactor=0.1")
	assert.Contains(t, out, `elements="In" "As"`)
	assert.Contains(t, out, "types=1 2")
	assert.Contains(t, out, "positions(:,2)=0.25 0.25 0.25")
	assert.Contains(t, out, "scell(:)=5 5 5")
	assert.Contains(t, out, "T=300")
	assert.Contains(t, out, "scalebroad=0.5")
	assert.Contains(t, out, "convergence=.TRUE.")
	assert.NotContains(t, out, "nonanalytic")

	// Four groups, each closed.
	assert.Equal(t, 4, strings.Count(out, "&end"))
}

func TestControlTemperatureSweep(t *testing.T) {
	c, err := NewControl(inAsStructure(), Options{
		Supercell:   [3]int{3, 3, 3},
		Temperature: Temperature{Min: 300, Max: 900, Step: 100},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))
	out := buf.String()

	assert.Contains(t, out, "T_min=300")
	assert.Contains(t, out, "T_max=900")
	assert.Contains(t, out, "T_step=100")
	assert.NotContains(t, out, "T=300\n")
}

func TestControlWithBornCharges(t *testing.T) {
	eps := [3][3]float64{{6.4, 0, 0}, {0, 6.4, 0}, {0, 0, 6.4}}
	born := [][3][3]float64{
		{{2.6, 0, 0}, {0, 2.6, 0}, {0, 0, 2.6}},
		{{-2.6, 0, 0}, {0, -2.6, 0}, {0, 0, -2.6}},
	}

	c, err := NewControl(inAsStructure(), Options{
		Supercell:   [3]int{4, 4, 4},
		BornCharges: born,
		Dielectric:  &eps,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))
	out := buf.String()

	assert.Contains(t, out, "epsilon(:,1)=6.4 0 0")
	assert.Contains(t, out, "born(:,1,1)=2.6 0 0")
	assert.Contains(t, out, "born(:,3,2)=0 0 -2.6")
	assert.Contains(t, out, "nonanalytic=.TRUE.")
}

func TestNewControlValidation(t *testing.T) {
	eps := [3][3]float64{}

	tests := []struct {
		name string
		s    *vasp.Structure
		opts Options
	}{
		{
			name: "empty structure",
			s:    &vasp.Structure{},
			opts: Options{Supercell: [3]int{3, 3, 3}},
		},
		{
			name: "zero supercell",
			s:    inAsStructure(),
			opts: Options{},
		},
		{
			name: "dielectric without born charges",
			s:    inAsStructure(),
			opts: Options{Supercell: [3]int{3, 3, 3}, Dielectric: &eps},
		},
		{
			name: "born tensor count mismatch",
			s:    inAsStructure(),
			opts: Options{
				Supercell:   [3]int{3, 3, 3},
				Dielectric:  &eps,
				BornCharges: [][3][3]float64{{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewControl(tt.s, tt.opts)
			assert.Error(t, err)
		})
	}
}
