package build

import (
	"context"
	"os"

	"github.com/bitswalk/pkg-builder/src/common/errors"
)

// PrepareStage removes any previous build artifacts and recreates the
// artifacts directory
type PrepareStage struct{}

// NewPrepareStage creates a new prepare stage
func NewPrepareStage() *PrepareStage {
	return &PrepareStage{}
}

// Name returns the stage name
func (s *PrepareStage) Name() StageName {
	return StagePrepare
}

// Validate checks whether this stage can run
func (s *PrepareStage) Validate(ctx context.Context, sc *StageContext) error {
	if err := requireContext(sc); err != nil {
		return err
	}
	return require("build artifacts dir", sc.BuildArtifactsDir)
}

// Execute cleans and recreates the artifacts directory
func (s *PrepareStage) Execute(ctx context.Context, sc *StageContext, progress ProgressFunc) error {
	progress(0, "Cleaning build artifacts directory")
	if err := os.RemoveAll(sc.BuildArtifactsDir); err != nil {
		return errors.ErrWorkspace.WithMessagef("failed to remove %s", sc.BuildArtifactsDir).WithCause(err)
	}
	if err := os.MkdirAll(sc.BuildArtifactsDir, 0755); err != nil {
		return errors.ErrWorkspace.WithMessagef("failed to create %s", sc.BuildArtifactsDir).WithCause(err)
	}
	progress(100, "Build artifacts directory ready")
	return nil
}

// require returns ErrStageContext when value is empty
func require(field, value string) error {
	if value == "" {
		return errors.ErrStageContext.WithMessagef("%s not set", field)
	}
	return nil
}

// requireContext returns ErrStageContext for a nil context. Validate calls it
// before reading any field.
func requireContext(sc *StageContext) error {
	if sc == nil {
		return errors.ErrStageContext.WithMessage("stage context is nil")
	}
	return nil
}

// requireRunner returns ErrStageContext when no command runner is set
func requireRunner(sc *StageContext) error {
	if sc == nil || sc.Runner == nil {
		return errors.ErrStageContext.WithMessage("command runner not set")
	}
	return nil
}
