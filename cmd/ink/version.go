// Version command for the ink CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version of the ink binary.
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ink version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ink", "v"+Version)
	},
}
