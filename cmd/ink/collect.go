// Collect command: gather structures into an extended-XYZ training set.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sciforge/ink/internal/xyz"
)

var collectOutput string

var collectCmd = &cobra.Command{
	Use:   "collect <paths>...",
	Short: "Collect structures into an extended-XYZ training set",
	Long: `Collect scans the given files for POSCAR-format structures and writes
every frame it finds to a single extended-XYZ file. Unreadable files are
reported and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringVarP(&collectOutput, "output", "o", xyz.DefaultOutput, "output file name")
}

func runCollect(cmd *cobra.Command, args []string) error {
	structures := xyz.Collect(args, func(path string, err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "skip %s: %v\n", path, err)
	})

	if err := xyz.WriteFile(collectOutput, structures); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d structures to %s\n", len(structures), collectOutput)
	return nil
}
