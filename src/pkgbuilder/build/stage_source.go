package build

import (
	"context"
	"path/filepath"

	"github.com/bitswalk/pkg-builder/src/pkgbuilder/source"
)

// DownloadStage fetches or copies the upstream tarball
type DownloadStage struct{}

// NewDownloadStage creates a new download stage
func NewDownloadStage() *DownloadStage {
	return &DownloadStage{}
}

// Name returns the stage name
func (s *DownloadStage) Name() StageName {
	return StageDownload
}

// Validate checks whether this stage can run
func (s *DownloadStage) Validate(ctx context.Context, sc *StageContext) error {
	if err := requireContext(sc); err != nil {
		return err
	}
	if err := require("tarball url", sc.TarballURL); err != nil {
		return err
	}
	if err := require("tarball path", sc.TarballPath); err != nil {
		return err
	}
	return requireRunner(sc)
}

// Execute downloads or copies the tarball into TarballPath
func (s *DownloadStage) Execute(ctx context.Context, sc *StageContext, progress ProgressFunc) error {
	progress(0, "Acquiring upstream tarball")
	if err := source.DownloadOrCopy(ctx, sc.Runner, sc.TarballPath, sc.TarballURL); err != nil {
		return err
	}
	progress(100, "Upstream tarball acquired")
	return nil
}

// GitCloneStage clones a tag with pinned submodules and packs it into a
// reproducible tarball
type GitCloneStage struct{}

// NewGitCloneStage creates a new git clone stage
func NewGitCloneStage() *GitCloneStage {
	return &GitCloneStage{}
}

// Name returns the stage name
func (s *GitCloneStage) Name() StageName {
	return StageGitClone
}

// Validate checks whether this stage can run
func (s *GitCloneStage) Validate(ctx context.Context, sc *StageContext) error {
	if err := requireContext(sc); err != nil {
		return err
	}
	for _, f := range [][2]string{
		{"git url", sc.GitURL},
		{"git tag", sc.GitTag},
		{"package name", sc.PackageName},
		{"tarball path", sc.TarballPath},
		{"build artifacts dir", sc.BuildArtifactsDir},
	} {
		if err := require(f[0], f[1]); err != nil {
			return err
		}
	}
	return requireRunner(sc)
}

// Execute clones into <artifacts>/<package> and tars the result
func (s *GitCloneStage) Execute(ctx context.Context, sc *StageContext, progress ProgressFunc) error {
	repoDir := filepath.Join(sc.BuildArtifactsDir, sc.PackageName)

	progress(0, "Cloning repository")
	if err := source.CloneAndCheckout(ctx, sc.Runner, sc.GitURL, sc.GitTag, repoDir, sc.Submodules); err != nil {
		return err
	}

	progress(70, "Creating deterministic tarball")
	if err := source.CreateDeterministicTarball(ctx, sc.Runner, repoDir, sc.TarballPath); err != nil {
		return err
	}
	progress(100, "Source tarball created")
	return nil
}

// VirtualStage creates an empty tarball for packages without sources
type VirtualStage struct{}

// NewVirtualStage creates a new virtual stage
func NewVirtualStage() *VirtualStage {
	return &VirtualStage{}
}

// Name returns the stage name
func (s *VirtualStage) Name() StageName {
	return StageVirtual
}

// Validate checks whether this stage can run
func (s *VirtualStage) Validate(ctx context.Context, sc *StageContext) error {
	if err := requireContext(sc); err != nil {
		return err
	}
	if err := require("tarball path", sc.TarballPath); err != nil {
		return err
	}
	if err := require("build artifacts dir", sc.BuildArtifactsDir); err != nil {
		return err
	}
	return requireRunner(sc)
}

// Execute writes an empty gzip tarball to TarballPath
func (s *VirtualStage) Execute(ctx context.Context, sc *StageContext, progress ProgressFunc) error {
	progress(0, "Creating empty tarball")
	return source.CreateEmptyTarball(ctx, sc.Runner, sc.BuildArtifactsDir, sc.TarballPath)
}
