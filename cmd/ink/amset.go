// Amset command: write an AMSET settings.yaml from DFPT and elastic output.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sciforge/ink/internal/amset"
)

var (
	amsetOutput       string
	amsetWavefunction string
	amsetDeformation  string
	amsetVasprun      string
	amsetOutcar       string
	amsetPopFrequency float64
)

var amsetCmd = &cobra.Command{
	Use:   "amset",
	Short: "Write an AMSET settings.yaml",
	Long: `Amset assembles a settings.yaml for carrier transport calculations:
the fixed doping ladder and defaults, the high-frequency and static
dielectric tensors from a DFPT vasprun.xml, and the elastic tensor from
an IBRION=6 OUTCAR. Wavefunction and deformation paths are made absolute.`,
	Args: cobra.NoArgs,
	RunE: runAmset,
}

func init() {
	amsetCmd.Flags().StringVarP(&amsetOutput, "output", "o", "settings.yaml", "output file name")
	amsetCmd.Flags().StringVar(&amsetWavefunction, "wavefunction", "wavefunction.h5", "wavefunction coefficients file")
	amsetCmd.Flags().StringVar(&amsetDeformation, "deformation", "deformation.h5", "deformation potentials file")
	amsetCmd.Flags().StringVar(&amsetVasprun, "vasprun", "vasprun.xml", "DFPT vasprun.xml with dielectric tensors")
	amsetCmd.Flags().StringVar(&amsetOutcar, "outcar", "OUTCAR", "OUTCAR with elastic moduli")
	amsetCmd.Flags().Float64Var(&amsetPopFrequency, "pop-frequency", 0, "polar optical phonon frequency in THz")
}

func runAmset(cmd *cobra.Command, args []string) error {
	settings, err := amset.Build(amset.Inputs{
		WavefunctionHDF5: amsetWavefunction,
		DeformHDF5:       amsetDeformation,
		DFPTVasprun:      amsetVasprun,
		ElasticOutcar:    amsetOutcar,
		PopFrequency:     amsetPopFrequency,
	})
	if err != nil {
		return err
	}
	if err := settings.WriteFile(amsetOutput); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", amsetOutput)
	return nil
}
