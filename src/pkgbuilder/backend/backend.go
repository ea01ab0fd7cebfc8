// Package backend defines the build backend contract and its sbuild
// implementation.
package backend

import (
	"context"

	"github.com/bitswalk/pkg-builder/src/common/logs"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/config"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the backend package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// Backend builds packages from a prepared source tree and checks the
// resulting artifacts
type Backend interface {
	// Create builds the chroot cache. Callers should Clean first.
	Create(ctx context.Context) error

	// Clean removes the chroot cache, a missing cache is not an error
	Clean(ctx context.Context) error

	// Package builds the package, then runs piuparts and autopkgtest
	// standalone when the configuration requests them
	Package(ctx context.Context) error

	// Verify compares produced artifacts against expected SHA-1 digests and
	// reports every discrepancy at once
	Verify(ctx context.Context, expected []config.PackageHash) ([]VerifyResult, error)

	RunLintian(ctx context.Context) error
	RunPiuparts(ctx context.Context) error
	RunAutopkgtests(ctx context.Context) error
}
