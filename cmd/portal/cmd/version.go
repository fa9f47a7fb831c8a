package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.1.0" // set at build time with -ldflags "-X github.com/nfrund/student-portal/cmd/portal/cmd.version=1.2.3"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of the portal",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Student Portal v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
