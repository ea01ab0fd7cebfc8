package core

import (
	"github.com/spf13/cobra"
)

var packageCmd = &cobra.Command{
	Use:   "package [config]",
	Short: "Build the package",
	Long: `Acquires the source, generates and patches debian/ metadata, then builds
the package with sbuild. piuparts and autopkgtest run afterwards when the
configuration enables them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPackager(args)
		if err != nil {
			return err
		}
		return p.Package(cmd.Context())
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage the sbuild chroot cache",
}

var envCreateCmd = &cobra.Command{
	Use:   "create [config]",
	Short: "Create the chroot cache for the configured codename and arch",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPackager(args)
		if err != nil {
			return err
		}
		return p.CreateEnv(cmd.Context())
	},
}

var envCleanCmd = &cobra.Command{
	Use:   "clean [config]",
	Short: "Remove the chroot cache",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPackager(args)
		if err != nil {
			return err
		}
		return p.CleanEnv(cmd.Context())
	},
}

func init() {
	envCmd.AddCommand(envCreateCmd)
	envCmd.AddCommand(envCleanCmd)
}
