package shengbte

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// namelist is an ordered Fortran namelist document. ShengBTE reads the
// CONTROL file with a Fortran namelist parser, so groups are emitted as
// "&name ... &end" blocks with one entry per line.
type namelist struct {
	groups []*group
}

type group struct {
	name    string
	entries []entry
}

type entry struct {
	key   string
	value string
}

func (n *namelist) group(name string) *group {
	g := &group{name: name}
	n.groups = append(n.groups, g)
	return g
}

func (g *group) add(key, value string) {
	g.entries = append(g.entries, entry{key: key, value: value})
}

func (n *namelist) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, g := range n.groups {
		fmt.Fprintf(bw, "&%s\n", g.name)
		for _, e := range g.entries {
			fmt.Fprintf(bw, "        %s=%s\n", e.key, e.value)
		}
		fmt.Fprintln(bw, "&end")
	}
	return bw.Flush()
}

// Value formatters. ShengBTE accepts blank-separated array literals.

func fortranInt(v int) string { return strconv.Itoa(v) }

func fortranFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func fortranBool(v bool) string {
	if v {
		return ".TRUE."
	}
	return ".FALSE."
}

func fortranInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fortranInt(v)
	}
	return strings.Join(parts, " ")
}

func fortranFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fortranFloat(v)
	}
	return strings.Join(parts, " ")
}

func fortranStrings(vs []string) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = `"` + v + `"`
	}
	return strings.Join(parts, " ")
}
