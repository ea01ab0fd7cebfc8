package build

import "github.com/bitswalk/pkg-builder/src/pkgbuilder/config"

// NewTarballPipeline assembles the stages for an upstream tarball package
func NewTarballPipeline() *Pipeline {
	return withCommonStages(NewDownloadStage())
}

// NewGitPipeline assembles the stages for a git package
func NewGitPipeline() *Pipeline {
	return withCommonStages(NewGitCloneStage())
}

// NewVirtualPipeline assembles the stages for a virtual package
func NewVirtualPipeline() *Pipeline {
	return withCommonStages(NewVirtualStage())
}

// PipelineFor returns the pipeline matching a package type
func PipelineFor(pt config.PackageType) *Pipeline {
	switch pt.(type) {
	case config.GitPackage:
		return NewGitPipeline()
	case config.VirtualPackage:
		return NewVirtualPipeline()
	default:
		return NewTarballPipeline()
	}
}

// withCommonStages wraps an acquisition stage with the stages every
// package type shares
func withCommonStages(acquire Stage) *Pipeline {
	return NewPipeline(
		NewPrepareStage(),
		acquire,
		NewChecksumStage(),
		NewExtractStage(),
		NewDebcrafterStage(),
		NewPatchStage(),
		NewSbuildrcStage(),
	)
}
