package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/google/renameio"
)

// SbuildrcStage writes the sbuild configuration used by the sbuild backend
type SbuildrcStage struct{}

// NewSbuildrcStage creates a new sbuildrc stage
func NewSbuildrcStage() *SbuildrcStage {
	return &SbuildrcStage{}
}

// Name returns the stage name
func (s *SbuildrcStage) Name() StageName {
	return StageSbuildrc
}

// Validate checks whether this stage can run
func (s *SbuildrcStage) Validate(ctx context.Context, sc *StageContext) error {
	if err := requireContext(sc); err != nil {
		return err
	}
	if err := require("sbuildrc path", sc.SbuildrcPath); err != nil {
		return err
	}
	return require("build artifacts dir", sc.BuildArtifactsDir)
}

// Execute writes the configuration atomically
func (s *SbuildrcStage) Execute(ctx context.Context, sc *StageContext, progress ProgressFunc) error {
	if err := os.MkdirAll(filepath.Dir(sc.SbuildrcPath), 0755); err != nil {
		return errors.ErrWorkspace.WithMessagef("failed to create %s", filepath.Dir(sc.SbuildrcPath)).WithCause(err)
	}
	if err := renameio.WriteFile(sc.SbuildrcPath, []byte(Sbuildrc(sc.BuildArtifactsDir)), 0644); err != nil {
		return errors.ErrWorkspace.WithMessagef("failed to write %s", sc.SbuildrcPath).WithCause(err)
	}
	progress(100, "Wrote "+sc.SbuildrcPath)
	return nil
}

// Sbuildrc renders the perl sbuild configuration for an artifacts directory
func Sbuildrc(artifactsDir string) string {
	return fmt.Sprintf(`$chroot_mode = 'unshare';
$build_dir = '%s';
$purge_build_directory = 'successful';
1;
`, artifactsDir)
}
