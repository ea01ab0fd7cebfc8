package build

import (
	"context"

	"github.com/bitswalk/pkg-builder/src/pkgbuilder/archive"
)

// ExtractStage unpacks the tarball into BuildFilesDir
type ExtractStage struct{}

// NewExtractStage creates a new extract stage
func NewExtractStage() *ExtractStage {
	return &ExtractStage{}
}

// Name returns the stage name
func (s *ExtractStage) Name() StageName {
	return StageExtract
}

// Validate checks whether this stage can run
func (s *ExtractStage) Validate(ctx context.Context, sc *StageContext) error {
	if err := requireContext(sc); err != nil {
		return err
	}
	if err := require("tarball path", sc.TarballPath); err != nil {
		return err
	}
	if err := require("build files dir", sc.BuildFilesDir); err != nil {
		return err
	}
	return requireRunner(sc)
}

// Execute extracts the tarball, stripping its common top-level directory
func (s *ExtractStage) Execute(ctx context.Context, sc *StageContext, progress ProgressFunc) error {
	progress(0, "Extracting tarball")
	if err := archive.Extract(ctx, sc.Runner, sc.TarballPath, sc.BuildFilesDir); err != nil {
		return err
	}
	progress(100, "Tarball extracted")
	return nil
}
