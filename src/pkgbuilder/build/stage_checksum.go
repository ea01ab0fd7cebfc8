package build

import (
	"context"

	"github.com/bitswalk/pkg-builder/src/pkgbuilder/checksum"
)

// ChecksumStage verifies the acquired tarball against TarballHash
type ChecksumStage struct{}

// NewChecksumStage creates a new checksum stage
func NewChecksumStage() *ChecksumStage {
	return &ChecksumStage{}
}

// Name returns the stage name
func (s *ChecksumStage) Name() StageName {
	return StageChecksum
}

// Validate checks whether this stage can run
func (s *ChecksumStage) Validate(ctx context.Context, sc *StageContext) error {
	if err := requireContext(sc); err != nil {
		return err
	}
	return require("tarball path", sc.TarballPath)
}

// Execute verifies the tarball. An empty hash skips verification.
func (s *ChecksumStage) Execute(ctx context.Context, sc *StageContext, progress ProgressFunc) error {
	if sc.TarballHash == "" {
		progress(100, "No tarball hash configured, skipping verification")
		return nil
	}
	progress(0, "Verifying tarball checksum")
	return checksum.Verify(sc.TarballPath, sc.TarballHash)
}
