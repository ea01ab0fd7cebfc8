// Package core provides the pkg-builder command tree.
package core

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitswalk/pkg-builder/src/common/cli"
	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/logs"
	"github.com/bitswalk/pkg-builder/src/common/output"
	"github.com/bitswalk/pkg-builder/src/common/version"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/backend"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/build"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/checksum"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/command"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/config"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/debcrafter"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/packager"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/patch"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/source"
	"github.com/spf13/cobra"
)

var (
	// VersionInfo holds version information - set at build time via ldflags
	VersionInfo = version.New()

	// Global logger instance
	log = logs.NewDefault()

	// Application settings file path
	cfgFile string
)

// Linker variables - these are set via ldflags at build time
var (
	Version        = "dev"
	ReleaseVersion = "0.0.0"
	BuildDate      = "unknown"
	GitCommit      = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pkg-builder",
	Short: "Build Debian and Ubuntu packages from a declarative config",
	Long: `pkg-builder builds Debian and Ubuntu packages described by a
pkg-builder.toml file. It acquires the upstream source, generates debian/
metadata with debcrafter and builds the package with sbuild, optionally
checking the result with lintian, piuparts and autopkgtest.

Commands taking [config] accept a config file, a directory containing
pkg-builder.toml, or nothing to use the current directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command
func Execute() {
	VersionInfo.Version = Version
	VersionInfo.ReleaseVersion = ReleaseVersion
	VersionInfo.BuildDate = BuildDate
	VersionInfo.GitCommit = GitCommit

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		output.PrintError(err)
		os.Exit(errors.GetExitCode(err))
	}
}

func init() {
	cli.RegisterConfigFlag(rootCmd, &cfgFile, "/etc/pkg-builder/pkg-builder-settings.toml")
	cli.RegisterLogFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(lintianCmd)
	rootCmd.AddCommand(piupartsCmd)
	rootCmd.AddCommand(autopkgtestCmd)
	rootCmd.AddCommand(verifyCmd)
}

// initConfig reads application settings and installs the configured logger
func initConfig() error {
	opts := cli.DefaultConfigOptions("pkg-builder-settings", "PKG_BUILDER")
	opts.ConfigFile = cfgFile

	if err := cli.InitConfig(opts); err != nil {
		return errors.ErrConfigInvalid.WithCause(err)
	}

	setLogger(cli.InitLogger("pkg-builder"))
	return nil
}

// setLogger installs l into every package that logs
func setLogger(l *logs.Logger) {
	log = l
	command.SetLogger(l)
	checksum.SetLogger(l)
	source.SetLogger(l)
	debcrafter.SetLogger(l)
	patch.SetLogger(l)
	build.SetLogger(l)
	backend.SetLogger(l)
	config.SetLogger(l)
	packager.SetLogger(l)
}

// configArg returns the optional [config] positional argument
func configArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// loadPackager resolves and loads the package config, then dispatches it
func loadPackager(args []string) (*packager.Packager, error) {
	cfg, err := config.ResolveAndLoad(configArg(args))
	if err != nil {
		return nil, err
	}
	log.Debug("Using package config", "path", cfg.Path)
	return packager.New(cfg, cfg.Root, packager.WithVersion(VersionInfo.ReleaseVersion))
}
