package xyz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sciforge/ink/internal/vasp"
)

const siPoscar = `Si2
1.0
  0.0000000000000000  2.7150000000000000  2.7150000000000000
  2.7150000000000000  0.0000000000000000  2.7150000000000000
  2.7150000000000000  2.7150000000000000  0.0000000000000000
Si
2
Direct
  0.0000000000000000  0.0000000000000000  0.0000000000000000
  0.2500000000000000  0.2500000000000000  0.2500000000000000
`

func TestWriteFrames(t *testing.T) {
	s, err := vasp.ParsePOSCAR(strings.NewReader(siPoscar))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, WriteFrames(&b, []*vasp.Structure{s, s}))

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	// Two frames of 2 header lines + 2 atoms each.
	require.Len(t, lines, 8)
	assert.Equal(t, "2", lines[0])
	assert.Contains(t, lines[1], `Lattice="0.00000000 2.71500000 2.71500000`)
	assert.Contains(t, lines[1], "Properties=species:S:1:pos:R:3")
	assert.Contains(t, lines[1], `pbc="T T T"`)
	assert.True(t, strings.HasPrefix(lines[2], "Si"))
	// Second atom at fractional (1/4,1/4,1/4) of the fcc cell is
	// cartesian (1.3575, 1.3575, 1.3575).
	assert.Contains(t, lines[3], "1.35750000")
	assert.Equal(t, "2", lines[4])
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "POSCAR")
	require.NoError(t, os.WriteFile(good, []byte(siPoscar), 0o644))
	bad := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(bad, []byte("not a structure\n"), 0o644))

	var skipped []string
	structures := Collect(
		[]string{good, bad, dir, filepath.Join(dir, "missing")},
		func(path string, err error) { skipped = append(skipped, path) },
	)

	require.Len(t, structures, 1)
	assert.Equal(t, 2, structures[0].NumSites())
	// Only the unparseable file is reported; directories and missing
	// paths are skipped silently.
	assert.Equal(t, []string{bad}, skipped)
}

func TestWriteFile(t *testing.T) {
	s, err := vasp.ParsePOSCAR(strings.NewReader(siPoscar))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), DefaultOutput)
	require.NoError(t, WriteFile(out, []*vasp.Structure{s}))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "2\n"))
}
