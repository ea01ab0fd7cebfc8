package build

import (
	"context"

	"github.com/bitswalk/pkg-builder/src/pkgbuilder/debcrafter"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/patch"
)

// DebcrafterStage generates debian/ into the extracted tree
type DebcrafterStage struct{}

// NewDebcrafterStage creates a new debcrafter stage
func NewDebcrafterStage() *DebcrafterStage {
	return &DebcrafterStage{}
}

// Name returns the stage name
func (s *DebcrafterStage) Name() StageName {
	return StageDebcrafter
}

// Validate checks whether this stage can run
func (s *DebcrafterStage) Validate(ctx context.Context, sc *StageContext) error {
	if err := requireContext(sc); err != nil {
		return err
	}
	for _, f := range [][2]string{
		{"spec file", sc.SpecFile},
		{"build files dir", sc.BuildFilesDir},
		{"debcrafter version", sc.DebcrafterVersion},
	} {
		if err := require(f[0], f[1]); err != nil {
			return err
		}
	}
	return requireRunner(sc)
}

// Execute runs debcrafter and copies its debian/ output
func (s *DebcrafterStage) Execute(ctx context.Context, sc *StageContext, progress ProgressFunc) error {
	progress(0, "Generating debian metadata")
	if err := debcrafter.Generate(ctx, sc.Runner, sc.SpecFile, sc.BuildFilesDir, sc.DebcrafterVersion); err != nil {
		return err
	}
	progress(100, "Debian metadata generated")
	return nil
}

// PatchStage applies quilt bookkeeping, control headers and the source overlay
type PatchStage struct{}

// NewPatchStage creates a new patch stage
func NewPatchStage() *PatchStage {
	return &PatchStage{}
}

// Name returns the stage name
func (s *PatchStage) Name() StageName {
	return StagePatch
}

// Validate checks whether this stage can run
func (s *PatchStage) Validate(ctx context.Context, sc *StageContext) error {
	if err := requireContext(sc); err != nil {
		return err
	}
	return require("build files dir", sc.BuildFilesDir)
}

// Execute patches the debian/ tree in BuildFilesDir
func (s *PatchStage) Execute(ctx context.Context, sc *StageContext, progress ProgressFunc) error {
	progress(0, "Patching source tree")
	return patch.Apply(sc.BuildFilesDir, sc.Homepage, sc.SrcDir)
}
