package types

// TaskSpec describes one named task section of the config file. Several
// fields are deliberately loose-typed because the YAML value decides the
// behavior: a string is a source file path, a mapping is literal content, a
// number is a mesh density.
type TaskSpec struct {
	// Poscar is a structure file parsed and rewritten as POSCAR.
	Poscar string `json:"poscar,omitempty" yaml:"poscar,omitempty"`

	// Chgcar is a file copied verbatim to CHGCAR.
	Chgcar string `json:"chgcar,omitempty" yaml:"chgcar,omitempty"`

	// Incar is either a mapping of INCAR tags to values or the path of an
	// existing INCAR file.
	Incar any `json:"incar,omitempty" yaml:"incar,omitempty"`

	// Kpoints is a file path, the literal "line" for a high-symmetry
	// line-mode mesh, or a number interpreted as the k-point resolution
	// used to size a gamma-centered mesh.
	Kpoints any `json:"kpoints,omitempty" yaml:"kpoints,omitempty"`

	// Potcar is a shell command run inside the task directory, usually a
	// vaspkit invocation.
	Potcar string `json:"potcar,omitempty" yaml:"potcar,omitempty"`

	// Jobscript is either the path of an existing script or inline script
	// content written to jobscript.sh.
	Jobscript string `json:"jobscript,omitempty" yaml:"jobscript,omitempty"`

	// Cp lists extra files copied verbatim into the task directory.
	Cp []string `json:"cp,omitempty" yaml:"cp,omitempty"`
}

// IsZero reports whether the spec has no fields set, which happens when a
// task section exists but is empty.
func (s TaskSpec) IsZero() bool {
	return s.Poscar == "" && s.Chgcar == "" && s.Incar == nil &&
		s.Kpoints == nil && s.Potcar == "" && s.Jobscript == "" && len(s.Cp) == 0
}
