// Root command for the ink CLI.
package main

import (
	"github.com/spf13/cobra"
)

// Global flag values.
var (
	flagConfig  string
	flagDataDir string
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "ink",
	Short: "ink automates VASP, ShengBTE, and Phonopy workflows",
	Long: `ink prepares first-principles calculation inputs (POSCAR, INCAR,
KPOINTS, POTCAR, ShengBTE CONTROL, AMSET settings), submits jobs to a
batch scheduler, and post-processes the results into tables and figures.

Task definitions live in a YAML config; packaged defaults are overlaid
by the working-directory file, later sources winning per top-level key.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "task config file (default: ./ink.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "submission ledger directory (default: <work_dir>/.ink)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(shengbteCmd)
	rootCmd.AddCommand(amsetCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(plotCmd)
}
