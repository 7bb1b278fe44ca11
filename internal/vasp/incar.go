package vasp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Incar holds INCAR tags with their values formatted as strings, plus the
// tag order for stable output.
type Incar struct {
	keys   []string
	values map[string]string
}

// NewIncar returns an empty Incar.
func NewIncar() *Incar {
	return &Incar{values: map[string]string{}}
}

// Set adds or replaces a tag. Tag names are uppercased; values are
// formatted VASP-style (bools become .TRUE./.FALSE., slices are space
// separated).
func (inc *Incar) Set(key string, value any) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if _, ok := inc.values[key]; !ok {
		inc.keys = append(inc.keys, key)
	}
	inc.values[key] = formatIncarValue(value)
}

// Get returns the formatted value for a tag.
func (inc *Incar) Get(key string) (string, bool) {
	v, ok := inc.values[strings.ToUpper(key)]
	return v, ok
}

// Len returns the number of tags.
func (inc *Incar) Len() int { return len(inc.keys) }

// IncarFromMap builds an Incar from decoded YAML content. Keys are emitted
// in sorted order since YAML mappings decoded to Go maps have none.
func IncarFromMap(tags map[string]any) *Incar {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	inc := NewIncar()
	for _, k := range keys {
		inc.Set(k, tags[k])
	}
	return inc
}

// ParseIncar reads an existing INCAR file. Comments (# and !) and blank
// lines are dropped; "KEY = VALUE" pairs are kept in file order.
func ParseIncar(r io.Reader) (*Incar, error) {
	inc := NewIncar()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexAny(line, "#!"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Multiple tags per line separated by ';' are legal INCAR syntax.
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			key, value, found := strings.Cut(stmt, "=")
			if !found {
				return nil, fmt.Errorf("incar: line %d: no '=' in %q", lineNo, stmt)
			}
			inc.Set(strings.TrimSpace(key), strings.TrimSpace(value))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return inc, nil
}

// ReadIncar parses an INCAR file from disk.
func ReadIncar(path string) (*Incar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inc, err := ParseIncar(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inc, nil
}

// Write emits "KEY = VALUE" lines in tag order.
func (inc *Incar) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, k := range inc.keys {
		fmt.Fprintf(bw, "%s = %s\n", k, inc.values[k])
	}
	return bw.Flush()
}

// WriteFile writes the INCAR to path.
func (inc *Incar) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return inc.Write(f)
}

// formatIncarValue renders a decoded YAML value as INCAR text.
func formatIncarValue(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return ".TRUE."
		}
		return ".FALSE."
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = formatIncarValue(e)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
