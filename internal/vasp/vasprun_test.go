package vasp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVasprun = `<?xml version="1.0" encoding="ISO-8859-1"?>
<modeling>
 <calculation>
  <varray name="epsilon" >
   <v>       6.43613700       0.00000000       0.00000000 </v>
   <v>       0.00000000       6.43613700       0.00000000 </v>
   <v>       0.00000000       0.00000000       6.43613700 </v>
  </varray>
  <varray name="epsilon_ion" >
   <v>       3.12000000       0.00000000       0.00000000 </v>
   <v>       0.00000000       3.12000000       0.00000000 </v>
   <v>       0.00000000       0.00000000       3.12000000 </v>
  </varray>
  <varray name="forces" >
   <v>       0.00000000       0.00000000       0.00000000 </v>
  </varray>
 </calculation>
</modeling>
`

func TestReadVasprun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vasprun.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleVasprun), 0o644))

	v, err := ReadVasprun(path)
	require.NoError(t, err)

	require.True(t, v.HasEpsilonStatic())
	require.True(t, v.HasEpsilonIonic())
	assert.InDelta(t, 6.436137, v.EpsilonStatic[1][1], 1e-9)
	assert.InDelta(t, 3.12, v.EpsilonIonic[2][2], 1e-9)

	static := v.StaticDielectric()
	assert.InDelta(t, 9.556137, static[0][0], 1e-9)
	assert.InDelta(t, 0, static[0][1], 1e-9)
}

func TestReadVasprunWithoutDielectric(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vasprun.xml")
	require.NoError(t, os.WriteFile(path, []byte("<modeling><calculation/></modeling>"), 0o644))

	v, err := ReadVasprun(path)
	require.NoError(t, err)
	assert.False(t, v.HasEpsilonStatic())
	assert.False(t, v.HasEpsilonIonic())
}

func TestReadVasprunMalformedTensor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vasprun.xml")
	bad := `<modeling><varray name="epsilon"><v>1 2</v><v>3 4</v><v>5 6</v></varray></modeling>`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := ReadVasprun(path)
	assert.Error(t, err)
}
