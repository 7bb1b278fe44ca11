// Export commands: convert calculation output to CSV tables.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sciforge/ink/internal/bte"
	"github.com/sciforge/ink/internal/phonopy"
)

var (
	exportOutDir  string
	exportBandOut string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export calculation output as CSV",
}

var exportBteCmd = &cobra.Command{
	Use:   "bte <dir>",
	Short: "Export ShengBTE output tables as CSV",
	Long: `Export bte reads the output files of a ShengBTE run directory and
writes the ones it finds as CSV: phonon frequencies (omega.csv, THz),
converged and RTA conductivity tensors (kappa.csv, kappa_rta.csv),
phonon DOS (dos.csv), and heat capacity (cv.csv).`,
	Args: cobra.ExactArgs(1),
	RunE: runExportBte,
}

var exportPhonopyCmd = &cobra.Command{
	Use:   "phonopy <band.yaml>",
	Short: "Export a Phonopy band structure as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportPhonopy,
}

func init() {
	exportBteCmd.Flags().StringVar(&exportOutDir, "out-dir", ".", "directory to write CSV files into")
	exportPhonopyCmd.Flags().StringVarP(&exportBandOut, "output", "o", "band.csv", "output file name")

	exportCmd.AddCommand(exportBteCmd)
	exportCmd.AddCommand(exportPhonopyCmd)
}

func runExportBte(cmd *cobra.Command, args []string) error {
	dir := args[0]
	exported := 0

	report := func(name string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(exportOutDir, name))
		exported++
	}

	if omega, err := bte.ReadOmega(dir); err == nil {
		if err := bte.ExportOmegaCSV(omega, filepath.Join(exportOutDir, "omega.csv")); err != nil {
			return err
		}
		report("omega.csv")
	} else if !os.IsNotExist(err) {
		return err
	}

	kappaOuts := []struct {
		in, out string
	}{
		{bte.KappaConvFile, "kappa.csv"},
		{bte.KappaRTAFile, "kappa_rta.csv"},
	}
	for _, k := range kappaOuts {
		points, err := bte.ReadKappa(dir, k.in)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := bte.ExportKappaCSV(points, filepath.Join(exportOutDir, k.out)); err != nil {
			return err
		}
		report(k.out)
	}

	if dos, err := bte.ReadDOS(dir); err == nil {
		if err := bte.ExportDOSCSV(dos, filepath.Join(exportOutDir, "dos.csv")); err != nil {
			return err
		}
		report("dos.csv")
	} else if !os.IsNotExist(err) {
		return err
	}

	if cv, err := bte.ReadCv(dir); err == nil {
		if err := bte.ExportCvCSV(cv, filepath.Join(exportOutDir, "cv.csv")); err != nil {
			return err
		}
		report("cv.csv")
	} else if !os.IsNotExist(err) {
		return err
	}

	if exported == 0 {
		return fmt.Errorf("no ShengBTE output found in %s", dir)
	}
	return nil
}

func runExportPhonopy(cmd *cobra.Command, args []string) error {
	band, err := phonopy.ReadBand(args[0])
	if err != nil {
		return err
	}
	if err := band.ExportCSV(exportBandOut); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", exportBandOut)
	return nil
}
