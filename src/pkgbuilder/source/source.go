// Package source acquires upstream sources: tarball download or copy, git
// checkouts repacked as deterministic tarballs, and empty tarballs for
// virtual packages.
package source

import (
	"context"
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/logs"
	"github.com/bitswalk/pkg-builder/src/common/paths"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/command"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the source package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// DownloadOrCopy fetches src into dest. Sources starting with "http" are
// downloaded with wget; anything else is a local path copied byte for byte.
func DownloadOrCopy(ctx context.Context, runner command.Runner, dest, src string) error {
	if strings.HasPrefix(src, "http") {
		log.Info("Downloading tarball", "url", src, "dest", dest)
		if err := runner.Execute(ctx, "wget", []string{"-q", "-O", dest, src}, ""); err != nil {
			return errors.ErrDownloadFailed.WithCause(err).WithMessagef("failed to download %s", src)
		}
		return nil
	}

	log.Info("Copying tarball", "src", src, "dest", dest)
	if err := paths.CopyFile(src, dest, 0644); err != nil {
		return errors.ErrCopyFailed.WithCause(err).WithMessagef("failed to copy tarball from %s", src)
	}
	return nil
}

// CreateEmptyTarball writes an empty gzip tarball standing in for absent
// upstream source.
func CreateEmptyTarball(ctx context.Context, runner command.Runner, artifactsDir, tarballPath string) error {
	log.Info("Creating empty tarball for virtual package", "path", tarballPath)
	if err := runner.Execute(ctx, "tar", []string{"czf", tarballPath, "--files-from", "/dev/null"}, artifactsDir); err != nil {
		return errors.ErrTarballFailed.WithCause(err).WithMessagef("failed to create empty tarball %s", tarballPath)
	}
	return nil
}
