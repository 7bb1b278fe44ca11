package vasp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIncar(t *testing.T) {
	input := `
SYSTEM = relax run   ! comment after value
ENCUT = 520
# full-line comment
ISIF = 3 ; IBRION = 2
LWAVE = .FALSE.
MAGMOM = 5 5 0
`
	inc, err := ParseIncar(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 6, inc.Len())
	for key, want := range map[string]string{
		"SYSTEM": "relax run",
		"ENCUT":  "520",
		"ISIF":   "3",
		"IBRION": "2",
		"LWAVE":  ".FALSE.",
		"MAGMOM": "5 5 0",
	} {
		got, ok := inc.Get(key)
		require.True(t, ok, "missing key %s", key)
		assert.Equal(t, want, got, "key %s", key)
	}
}

func TestParseIncarRejectsBareWord(t *testing.T) {
	_, err := ParseIncar(strings.NewReader("ENCUT\n"))
	assert.Error(t, err)
}

func TestIncarFromMap(t *testing.T) {
	inc := IncarFromMap(map[string]any{
		"encut":  520,
		"ediff":  1e-6,
		"lreal":  false,
		"magmom": []any{5, 5, 0},
	})

	var buf bytes.Buffer
	require.NoError(t, inc.Write(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	// Sorted tag order for map input.
	assert.Equal(t, []string{
		"EDIFF = 1e-06",
		"ENCUT = 520",
		"LREAL = .FALSE.",
		"MAGMOM = 5 5 0",
	}, lines)
}

func TestIncarWritePreservesParseOrder(t *testing.T) {
	inc, err := ParseIncar(strings.NewReader("ISTART = 0\nENCUT = 400\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, inc.Write(&buf))
	assert.Equal(t, "ISTART = 0\nENCUT = 400\n", buf.String())
}
