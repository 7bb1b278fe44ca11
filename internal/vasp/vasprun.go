package vasp

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Vasprun holds the vasprun.xml quantities AMSET needs: the electronic
// (epsilon) and ionic (epsilon_ion) dielectric tensors from a DFPT run.
type Vasprun struct {
	EpsilonStatic [3][3]float64
	EpsilonIonic  [3][3]float64

	hasStatic bool
	hasIonic  bool
}

// HasEpsilonStatic reports whether the electronic dielectric tensor was found.
func (v *Vasprun) HasEpsilonStatic() bool { return v.hasStatic }

// HasEpsilonIonic reports whether the ionic dielectric tensor was found.
func (v *Vasprun) HasEpsilonIonic() bool { return v.hasIonic }

// StaticDielectric returns epsilon_static + epsilon_ionic, the full static
// dielectric response AMSET expects.
func (v *Vasprun) StaticDielectric() [3][3]float64 {
	var sum [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum[i][j] = v.EpsilonStatic[i][j] + v.EpsilonIonic[i][j]
		}
	}
	return sum
}

// ReadVasprun streams a vasprun.xml and extracts the dielectric varrays.
// The file can be hundreds of megabytes, so this walks tokens instead of
// unmarshalling the whole document.
func ReadVasprun(path string) (*Vasprun, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v := &Vasprun{}
	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "varray" {
			continue
		}
		name := attrValue(start, "name")
		if name != "epsilon" && name != "epsilon_ion" {
			continue
		}

		tensor, err := decodeTensorVarray(dec, &start)
		if err != nil {
			return nil, fmt.Errorf("parse %s: varray %q: %w", path, name, err)
		}
		if name == "epsilon" {
			v.EpsilonStatic = tensor
			v.hasStatic = true
		} else {
			v.EpsilonIonic = tensor
			v.hasIonic = true
		}
	}
	return v, nil
}

// decodeTensorVarray decodes a <varray> of three <v> rows into a tensor.
func decodeTensorVarray(dec *xml.Decoder, start *xml.StartElement) ([3][3]float64, error) {
	var raw struct {
		Rows []string `xml:"v"`
	}
	if err := dec.DecodeElement(&raw, start); err != nil {
		return [3][3]float64{}, err
	}
	if len(raw.Rows) != 3 {
		return [3][3]float64{}, fmt.Errorf("expected 3 rows, got %d", len(raw.Rows))
	}

	var tensor [3][3]float64
	for i, row := range raw.Rows {
		fields := strings.Fields(row)
		if len(fields) != 3 {
			return [3][3]float64{}, fmt.Errorf("row %d: expected 3 values, got %d", i+1, len(fields))
		}
		for j, field := range fields {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return [3][3]float64{}, fmt.Errorf("row %d: bad value %q: %w", i+1, field, err)
			}
			tensor[i][j] = val
		}
	}
	return tensor, nil
}

// attrValue returns the named attribute of an element, or "".
func attrValue(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
