package core

import (
	"github.com/spf13/cobra"
)

var lintianCmd = &cobra.Command{
	Use:   "lintian [config]",
	Short: "Run lintian against the built package",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPackager(args)
		if err != nil {
			return err
		}
		return p.RunLintian(cmd.Context())
	},
}

var piupartsCmd = &cobra.Command{
	Use:   "piuparts [config]",
	Short: "Run piuparts against the built package (requires sudo)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPackager(args)
		if err != nil {
			return err
		}
		return p.RunPiuparts(cmd.Context())
	},
}

var autopkgtestCmd = &cobra.Command{
	Use:   "autopkgtest [config]",
	Short: "Run autopkgtest against the built package in a qemu image",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPackager(args)
		if err != nil {
			return err
		}
		return p.RunAutopkgtests(cmd.Context())
	},
}
