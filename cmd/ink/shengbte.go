// Shengbte command: write a ShengBTE CONTROL file for a structure.
package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sciforge/ink/internal/shengbte"
	"github.com/sciforge/ink/internal/vasp"
)

var (
	shengOutput      string
	shengBorn        bool
	shengOutcar      string
	shengNGrid       []int
	shengTemperature float64
	shengTMin        float64
	shengTMax        float64
	shengTStep       float64
	shengScalebroad  float64
	shengOmegaMax    float64
	shengWorkdir     string
)

var shengbteCmd = &cobra.Command{
	Use:   "shengbte <poscar> <sx> <sy> <sz>",
	Short: "Write a ShengBTE CONTROL file",
	Long: `Shengbte builds a CONTROL namelist from a POSCAR-format structure and
the supercell used for the force constant calculation.

With --born the Born effective charges and dielectric tensor are read from
the OUTCAR of a DFPT run and the non-analytic correction is enabled.

Example:
  ink shengbte POSCAR 4 4 4
  ink shengbte POSCAR 4 4 4 --born --outcar OUTCAR.dfpt
  ink shengbte POSCAR 4 4 4 --t-min 200 --t-max 800 --t-step 50`,
	Args: cobra.ExactArgs(4),
	RunE: runShengbte,
}

func init() {
	shengbteCmd.Flags().StringVarP(&shengOutput, "output", "o", "CONTROL", "output file name")
	shengbteCmd.Flags().BoolVar(&shengBorn, "born", false, "read Born charges and dielectric tensor from the OUTCAR")
	shengbteCmd.Flags().StringVar(&shengOutcar, "outcar", "OUTCAR", "OUTCAR file for --born")
	shengbteCmd.Flags().IntSliceVar(&shengNGrid, "ngrid", nil, "q-point grid as nx,ny,nz (default 15,15,15)")
	shengbteCmd.Flags().Float64Var(&shengTemperature, "temperature", 0, "BTE solve temperature in K (default 300)")
	shengbteCmd.Flags().Float64Var(&shengTMin, "t-min", 0, "temperature sweep start in K")
	shengbteCmd.Flags().Float64Var(&shengTMax, "t-max", 0, "temperature sweep end in K")
	shengbteCmd.Flags().Float64Var(&shengTStep, "t-step", 0, "temperature sweep step in K")
	shengbteCmd.Flags().Float64Var(&shengScalebroad, "scalebroad", 0, "Gaussian broadening scale (default 0.5)")
	shengbteCmd.Flags().Float64Var(&shengOmegaMax, "omega-max", 0, "phonon spectrum cap in rad/ps")
	shengbteCmd.Flags().StringVar(&shengWorkdir, "workdir", "", "directory to write the CONTROL file into")
}

func runShengbte(cmd *cobra.Command, args []string) error {
	var supercell [3]int
	for i, arg := range args[1:] {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("supercell dimension %q: %w", arg, err)
		}
		supercell[i] = n
	}

	structure, err := vasp.ReadStructure(args[0])
	if err != nil {
		return fmt.Errorf("read structure: %w", err)
	}

	opts := shengbte.Options{
		Supercell:  supercell,
		Scalebroad: shengScalebroad,
		OmegaMax:   shengOmegaMax,
	}

	if len(shengNGrid) > 0 {
		if len(shengNGrid) != 3 {
			return fmt.Errorf("--ngrid wants 3 values, got %d", len(shengNGrid))
		}
		copy(opts.NGrid[:], shengNGrid)
	}

	if shengTStep > 0 {
		opts.Temperature = shengbte.Temperature{Min: shengTMin, Max: shengTMax, Step: shengTStep}
	} else {
		opts.Temperature = shengbte.Temperature{T: shengTemperature}
	}

	if shengBorn {
		oc, err := vasp.ReadOutcar(shengOutcar)
		if err != nil {
			return fmt.Errorf("read OUTCAR for --born: %w", err)
		}
		if !oc.HasBornCharges() || !oc.HasDielectricTensor() {
			return fmt.Errorf("%s has no Born charges or dielectric tensor (is this a DFPT run?)", shengOutcar)
		}
		dielectric := oc.DielectricTensor
		opts.BornCharges = oc.BornCharges
		opts.Dielectric = &dielectric
	}

	control, err := shengbte.NewControl(structure, opts)
	if err != nil {
		return err
	}

	out := shengOutput
	if shengWorkdir != "" {
		out = filepath.Join(shengWorkdir, out)
	}
	if err := control.WriteFile(out); err != nil {
		return fmt.Errorf("write control: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}
