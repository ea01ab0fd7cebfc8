// Package build provides the pipeline that turns a package configuration
// into a patched source tree ready for sbuild.
package build

import (
	"context"

	"github.com/bitswalk/pkg-builder/src/pkgbuilder/command"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/source"
)

// StageName identifies a pipeline stage
type StageName string

const (
	StagePrepare    StageName = "prepare"
	StageDownload   StageName = "download"
	StageGitClone   StageName = "git_clone"
	StageVirtual    StageName = "virtual"
	StageChecksum   StageName = "checksum"
	StageExtract    StageName = "extract"
	StageDebcrafter StageName = "debcrafter"
	StagePatch      StageName = "patch"
	StageSbuildrc   StageName = "sbuildrc"
)

// Stage defines the interface for a single build pipeline stage
type Stage interface {
	// Name returns the stage name
	Name() StageName

	// Validate checks whether this stage can run given the current context
	Validate(ctx context.Context, sc *StageContext) error

	// Execute runs the stage, updating progress via the callback
	Execute(ctx context.Context, sc *StageContext, progress ProgressFunc) error
}

// ProgressFunc reports stage progress (0-100) with an optional message
type ProgressFunc func(percent int, message string)

// StageContext holds shared state passed through the pipeline.
// It is fully populated before the pipeline starts.
type StageContext struct {
	TarballURL        string // http(s) URL or local path of the upstream tarball
	TarballHash       string // optional SHA-512 or SHA-256 hex digest
	TarballPath       string // <artifacts>/<name>_<version>.orig.tar.gz
	BuildFilesDir     string // <artifacts>/<name>-<version>, receives debian/
	DebcrafterVersion string
	Homepage          string
	BuildArtifactsDir string // <workdir>/<name>-<version>-<revision>
	SpecFile          string
	SrcDir            string // overlay copied on top of debian/, may not exist

	// Git packages only
	PackageName string
	GitTag      string
	GitURL      string
	Submodules  []source.SubModule

	// SbuildrcPath is where the local sbuild configuration is written
	SbuildrcPath string

	Runner command.Runner
}
