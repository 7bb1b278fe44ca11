// Package amset assembles AMSET settings.yaml files from DFPT and elastic
// calculation outputs.
package amset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sciforge/ink/internal/vasp"
)

// Settings mirrors the AMSET settings.yaml schema for the keys this tool
// manages. Field order matches the emitted file.
type Settings struct {
	// General settings.
	Doping         []float64 `yaml:"doping"`
	Temperatures   float64   `yaml:"temperatures"`
	ScatteringType string    `yaml:"scattering_type"`
	UseProjections bool      `yaml:"use_projections"`

	// Electronic structure settings.
	InterpolationFactor int `yaml:"interpolation_factor"`

	// Material settings.
	WavefunctionCoefficients string `yaml:"wavefunction_coefficients"`
	DeformationPotential     string `yaml:"deformation_potential"`

	// Performance settings.
	Symprec           float64 `yaml:"symprec"`
	NWorkers          int     `yaml:"nworkers"`
	CacheWavefunction bool    `yaml:"cache_wavefunction"`

	// Output settings.
	FileFormat string `yaml:"file_format"`
	WriteInput bool   `yaml:"write_input"`
	WriteMesh  bool   `yaml:"write_mesh"`

	// Derived material response.
	HighFrequencyDielectric [3][3]float64 `yaml:"high_frequency_dielectric"`
	StaticDielectric        [3][3]float64 `yaml:"static_dielectric"`
	ElasticConstant         [6][6]float64 `yaml:"elastic_constant"`
	PopFrequency            float64       `yaml:"pop_frequency"`
}

// DefaultSettings returns the fixed defaults every generated settings.yaml
// starts from, including the full doping ladder.
func DefaultSettings() *Settings {
	return &Settings{
		Doping:                   dopingLadder(),
		Temperatures:             300,
		ScatteringType:           "auto",
		UseProjections:           false,
		InterpolationFactor:      30,
		WavefunctionCoefficients: "wavefunction.hdf5",
		DeformationPotential:     "deform.hdf5",
		Symprec:                  1e-5,
		NWorkers:                 -1,
		CacheWavefunction:        true,
		FileFormat:               "json",
		WriteInput:               true,
		WriteMesh:                true,
	}
}

// Inputs names the calculation outputs the derived settings come from.
type Inputs struct {
	WavefunctionHDF5 string
	DeformHDF5       string
	DFPTVasprun      string
	ElasticOutcar    string
	PopFrequency     float64
}

// Build reads the DFPT vasprun.xml and elastic OUTCAR and fills the derived
// fields: high-frequency dielectric = epsilon_static, static dielectric =
// epsilon_static + epsilon_ionic, elastic tensor from the OUTCAR moduli.
// HDF5 paths are made absolute so the settings file works from any
// directory.
func Build(in Inputs) (*Settings, error) {
	run, err := vasp.ReadVasprun(in.DFPTVasprun)
	if err != nil {
		return nil, fmt.Errorf("read DFPT vasprun: %w", err)
	}
	if !run.HasEpsilonStatic() || !run.HasEpsilonIonic() {
		return nil, fmt.Errorf("%s: no dielectric tensors; is this a DFPT run?", in.DFPTVasprun)
	}

	outcar, err := vasp.ReadOutcar(in.ElasticOutcar)
	if err != nil {
		return nil, fmt.Errorf("read elastic OUTCAR: %w", err)
	}
	if !outcar.HasElasticTensor() {
		return nil, fmt.Errorf("%s: no elastic moduli; is this an IBRION=6 run?", in.ElasticOutcar)
	}

	wavefunction, err := filepath.Abs(in.WavefunctionHDF5)
	if err != nil {
		return nil, err
	}
	deform, err := filepath.Abs(in.DeformHDF5)
	if err != nil {
		return nil, err
	}

	s := DefaultSettings()
	s.WavefunctionCoefficients = wavefunction
	s.DeformationPotential = deform
	s.HighFrequencyDielectric = run.EpsilonStatic
	s.StaticDielectric = run.StaticDielectric()
	s.ElasticConstant = outcar.ElasticTensor
	s.PopFrequency = in.PopFrequency
	return s, nil
}

// WriteFile writes the settings as YAML to path.
func (s *Settings) WriteFile(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
