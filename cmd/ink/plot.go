// Plot commands: render figures from calculation output.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sciforge/ink/internal/bte"
	"github.com/sciforge/ink/internal/phonopy"
	"github.com/sciforge/ink/internal/plotting"
)

var (
	plotKappaOut      string
	plotDispersionOut string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render figures from calculation output",
}

var plotKappaCmd = &cobra.Command{
	Use:   "kappa <dir>",
	Short: "Plot thermal conductivity versus temperature",
	Long: `Plot kappa renders the diagonal conductivity components of a ShengBTE
run as PNG, preferring the converged solution and falling back to RTA.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlotKappa,
}

var plotDispersionCmd = &cobra.Command{
	Use:   "dispersion <band.yaml>",
	Short: "Plot a Phonopy phonon dispersion",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlotDispersion,
}

func init() {
	plotKappaCmd.Flags().StringVarP(&plotKappaOut, "output", "o", "kappa.png", "output file name")
	plotDispersionCmd.Flags().StringVarP(&plotDispersionOut, "output", "o", "dispersion.png", "output file name")

	plotCmd.AddCommand(plotKappaCmd)
	plotCmd.AddCommand(plotDispersionCmd)
}

func runPlotKappa(cmd *cobra.Command, args []string) error {
	dir := args[0]

	points, err := bte.ReadKappa(dir, bte.KappaConvFile)
	if os.IsNotExist(err) {
		points, err = bte.ReadKappa(dir, bte.KappaRTAFile)
	}
	if err != nil {
		return err
	}

	if err := plotting.Kappa(points, plotKappaOut); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", plotKappaOut)
	return nil
}

func runPlotDispersion(cmd *cobra.Command, args []string) error {
	band, err := phonopy.ReadBand(args[0])
	if err != nil {
		return err
	}

	if err := plotting.Dispersion(band, plotDispersionOut); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", plotDispersionOut)
	return nil
}
