// Package shengbte builds ShengBTE CONTROL files from crystal structures.
package shengbte

import (
	"fmt"
	"io"
	"os"

	"github.com/sciforge/ink/internal/vasp"
)

// Temperature selects either a single temperature or a sweep. A sweep is
// active when Step is non-zero.
type Temperature struct {
	T    float64
	Min  float64
	Max  float64
	Step float64
}

// Sweep reports whether the temperature is a min/max/step range.
func (t Temperature) Sweep() bool { return t.Step != 0 }

// Options tune the generated CONTROL beyond what the structure provides.
type Options struct {
	// Supercell used for the force constant calculation, scell(:).
	Supercell [3]int

	// NGrid is the q-point grid; zero means the 15x15x15 default.
	NGrid [3]int

	// Temperature for the BTE solve; zero value means 300 K.
	Temperature Temperature

	// Scalebroad is the Gaussian broadening scale; zero means 0.5.
	Scalebroad float64

	// OmegaMax caps the phonon spectrum in rad/ps when positive.
	OmegaMax float64

	// Born effective charges and dielectric tensor enable the
	// non-analytic correction. Both must be set together.
	BornCharges [][3][3]float64
	Dielectric  *[3][3]float64
}

// Control is a ShengBTE CONTROL document ready to be written.
type Control struct {
	structure *vasp.Structure
	opts      Options
}

// Unit cell lengths are given in nm, so lattvec entries carry lfactor 0.1
// to convert from Angstrom.
const lfactor = 0.1

// Defaults applied by NewControl.
const (
	defaultNGrid       = 15
	defaultTemperature = 300
	defaultScalebroad  = 0.5
)

// NewControl validates the inputs and pairs a structure with its options.
func NewControl(s *vasp.Structure, opts Options) (*Control, error) {
	if s.NumSites() == 0 {
		return nil, fmt.Errorf("control: structure has no sites")
	}
	for i, n := range opts.Supercell {
		if n < 1 {
			return nil, fmt.Errorf("control: supercell component %d must be >= 1, got %d", i+1, n)
		}
	}
	if (opts.BornCharges == nil) != (opts.Dielectric == nil) {
		return nil, fmt.Errorf("control: born charges and dielectric tensor must be provided together")
	}
	if opts.BornCharges != nil && len(opts.BornCharges) != s.NumSites() {
		return nil, fmt.Errorf("control: %d born tensors for %d sites", len(opts.BornCharges), s.NumSites())
	}

	if opts.NGrid == ([3]int{}) {
		opts.NGrid = [3]int{defaultNGrid, defaultNGrid, defaultNGrid}
	}
	if !opts.Temperature.Sweep() && opts.Temperature.T == 0 {
		opts.Temperature.T = defaultTemperature
	}
	if opts.Scalebroad == 0 {
		opts.Scalebroad = defaultScalebroad
	}

	return &Control{structure: s, opts: opts}, nil
}

// Write emits the CONTROL namelist.
func (c *Control) Write(w io.Writer) error {
	s := c.structure
	elements, _ := s.Elements()

	nml := &namelist{}

	alloc := nml.group("allocations")
	alloc.add("nelements", fortranInt(len(elements)))
	alloc.add("natoms", fortranInt(s.NumSites()))
	alloc.add("ngrid(:)", fortranInts(c.opts.NGrid[:]))

	crystal := nml.group("crystal")
	crystal.add("lfactor", fortranFloat(lfactor))
	for i := 0; i < 3; i++ {
		crystal.add(fmt.Sprintf("lattvec(:,%d)", i+1), fortranFloats(s.Lattice[i][:]))
	}
	crystal.add("elements", fortranStrings(elements))
	crystal.add("types", fortranInts(s.TypeIndices()))
	for i, coords := range s.Coords {
		crystal.add(fmt.Sprintf("positions(:,%d)", i+1), fortranFloats(coords[:]))
	}
	if c.opts.Dielectric != nil {
		for i := 0; i < 3; i++ {
			crystal.add(fmt.Sprintf("epsilon(:,%d)", i+1), fortranFloats(c.opts.Dielectric[i][:]))
		}
		for i, tensor := range c.opts.BornCharges {
			for j := 0; j < 3; j++ {
				crystal.add(fmt.Sprintf("born(:,%d,%d)", j+1, i+1), fortranFloats(tensor[j][:]))
			}
		}
	}
	crystal.add("scell(:)", fortranInts(c.opts.Supercell[:]))

	params := nml.group("parameters")
	if c.opts.Temperature.Sweep() {
		params.add("T_min", fortranFloat(c.opts.Temperature.Min))
		params.add("T_max", fortranFloat(c.opts.Temperature.Max))
		params.add("T_step", fortranFloat(c.opts.Temperature.Step))
	} else {
		params.add("T", fortranFloat(c.opts.Temperature.T))
	}
	if c.opts.OmegaMax > 0 {
		params.add("omega_max", fortranFloat(c.opts.OmegaMax))
	}
	params.add("scalebroad", fortranFloat(c.opts.Scalebroad))

	flags := nml.group("flags")
	flags.add("convergence", fortranBool(true))
	if c.opts.Dielectric != nil {
		flags.add("nonanalytic", fortranBool(true))
	}

	return nml.write(w)
}

// WriteFile writes the CONTROL to path.
func (c *Control) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.Write(f)
}
