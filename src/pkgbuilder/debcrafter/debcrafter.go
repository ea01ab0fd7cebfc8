// Package debcrafter materializes debian/ packaging metadata from a
// debcrafter specification file.
package debcrafter

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/logs"
	"github.com/bitswalk/pkg-builder/src/common/paths"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/command"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the debcrafter package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// BinaryName returns the versioned debcrafter binary, e.g. "debcrafter_8189263"
func BinaryName(version string) string {
	return "debcrafter_" + version
}

// Generate runs debcrafter against specFile and copies the debian/ directory
// it produces into targetDir/debian, overwriting existing files.
func Generate(ctx context.Context, runner command.Runner, specFile, targetDir, version string) error {
	if err := command.LookPath("dpkg-parsechangelog"); err != nil {
		return errors.ErrToolMissing.WithCause(err).WithMessage(
			"dpkg-parsechangelog is not installed, install dpkg-dev")
	}
	binary := BinaryName(version)
	if err := command.LookPath(binary); err != nil {
		return errors.ErrToolMissing.WithCause(err).WithMessagef("%s is not installed", binary)
	}

	absSpec, err := filepath.Abs(specFile)
	if err == nil {
		absSpec, err = filepath.EvalSymlinks(absSpec)
	}
	if err != nil {
		return errors.ErrSpecFileMissing.WithCause(err).WithMessagef("specification file %s does not exist", specFile)
	}

	tmpDir, err := os.MkdirTemp("", "pkg-builder-debcrafter-*")
	if err != nil {
		return errors.ErrMetadataFailed.WithCause(err).WithMessage("failed to create temporary output directory")
	}
	defer os.RemoveAll(tmpDir)

	// debcrafter resolves includes relative to the spec file
	specDir := filepath.Dir(absSpec)
	log.Info("Generating debian directory", "spec", absSpec, "debcrafter", binary)
	if err := runner.Execute(ctx, binary, []string{filepath.Base(absSpec), tmpDir}, specDir); err != nil {
		return errors.ErrMetadataFailed.WithCause(err).WithMessagef("%s failed", binary)
	}

	outDir, err := firstDir(tmpDir)
	if err != nil {
		return err
	}

	src := filepath.Join(outDir, "debian")
	dst := filepath.Join(targetDir, "debian")
	if err := paths.CopyDir(src, dst); err != nil {
		return errors.ErrMetadataFailed.WithCause(err).WithMessagef("failed to copy %s to %s", src, dst)
	}

	log.Info("Debian directory generated", "path", dst)
	return nil
}

// firstDir returns the first directory entry debcrafter created
func firstDir(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.ErrNoDebianDir.WithCause(err)
	}
	for _, e := range entries {
		if e.IsDir() {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", errors.ErrNoDebianDir
}
