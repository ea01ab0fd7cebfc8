package core

import (
	"github.com/bitswalk/pkg-builder/src/common/output"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/backend"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [config]",
	Short: "Check built artifacts against expected SHA-1 digests",
	Long: `Builds the package (unless --no-package is given) and compares the SHA-1 of
every artifact listed in the verification config, pkg-builder-verify.toml
next to the package config by default. Every mismatch is reported at once.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("verify-config", "", "verification config (default: pkg-builder-verify.toml next to the package config)")
	verifyCmd.Flags().Bool("no-package", false, "verify existing artifacts without building")
	verifyCmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")
}

func runVerify(cmd *cobra.Command, args []string) error {
	verifyPath, _ := cmd.Flags().GetString("verify-config")
	noPackage, _ := cmd.Flags().GetBool("no-package")
	format, _ := cmd.Flags().GetString("output")

	p, err := loadPackager(args)
	if err != nil {
		return err
	}

	results, verifyErr := p.Verify(cmd.Context(), verifyPath, noPackage)
	if len(results) > 0 {
		if err := printVerifyResults(output.NewPrinter(cmd.OutOrStdout(), format), results); err != nil {
			return err
		}
	}
	return verifyErr
}

func printVerifyResults(pr *output.Printer, results []backend.VerifyResult) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, r.Status, r.Expected, r.Actual})
	}
	return pr.Print(results, []string{"ARTIFACT", "STATUS", "EXPECTED", "ACTUAL"}, rows)
}
