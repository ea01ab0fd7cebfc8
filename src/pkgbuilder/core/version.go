package core

import (
	"fmt"

	"github.com/bitswalk/pkg-builder/src/common/output"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	pr := output.NewPrinter(cmd.OutOrStdout(), format)

	if pr.Format() != output.FormatTable {
		return pr.Print(VersionInfo.Map(), nil, nil)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "pkg-builder %s\n", VersionInfo.Short())
	fmt.Fprintf(cmd.OutOrStdout(), "  Build date: %s\n", VersionInfo.BuildDate)
	return nil
}
