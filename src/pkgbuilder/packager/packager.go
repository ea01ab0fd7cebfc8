// Package packager dispatches a package configuration to its distribution
// backend and drives the build pipeline.
package packager

import (
	"context"
	"path/filepath"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/logs"
	"github.com/bitswalk/pkg-builder/src/common/paths"
	"github.com/bitswalk/pkg-builder/src/common/version"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/backend"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/build"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/command"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/config"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/distribution"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the packager package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// Packager builds one configured package
type Packager struct {
	cfg          *config.PkgConfig
	configRoot   string
	dist         distribution.Distribution
	runner       command.Runner
	backend      backend.Backend
	running      string
	sbuildrcPath string
}

// Option configures a Packager
type Option func(*Packager)

// WithRunner replaces the host command runner
func WithRunner(r command.Runner) Option {
	return func(p *Packager) { p.runner = r }
}

// WithBackend replaces the sbuild backend
func WithBackend(b backend.Backend) Option {
	return func(p *Packager) { p.backend = b }
}

// WithVersion sets the running pkg-builder release version
func WithVersion(v string) Option {
	return func(p *Packager) { p.running = v }
}

// WithSbuildrcPath overrides ~/.sbuildrc
func WithSbuildrcPath(path string) Option {
	return func(p *Packager) { p.sbuildrcPath = path }
}

// New resolves the distribution of cfg and returns its packager. An
// unsupported codename fails here, before anything touches the filesystem.
func New(cfg *config.PkgConfig, configRoot string, opts ...Option) (*Packager, error) {
	dist, err := distribution.Parse(cfg.BuildEnv.Codename)
	if err != nil {
		return nil, err
	}

	p := &Packager{
		cfg:          cfg,
		configRoot:   configRoot,
		dist:         dist,
		running:      version.DefaultReleaseVersion,
		sbuildrcPath: paths.Expand("~/.sbuildrc"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runner == nil {
		p.runner = command.NewHostRunner()
	}
	if p.backend == nil {
		p.backend = backend.NewSbuild(cfg, dist, p.runner)
	}

	log.Debug("Resolved distribution", "codename", dist.Name, "family", dist.Family)
	return p, nil
}

// Distribution returns the resolved target release
func (p *Packager) Distribution() distribution.Distribution {
	return p.dist
}

// StageContext builds the pipeline context from the configuration
func (p *Packager) StageContext() *build.StageContext {
	f := p.cfg.PackageFields
	sc := &build.StageContext{
		TarballPath:       p.cfg.TarballPath(),
		BuildFilesDir:     p.cfg.BuildFilesDir(),
		DebcrafterVersion: p.cfg.BuildEnv.DebcrafterVersion,
		Homepage:          f.Homepage,
		BuildArtifactsDir: p.cfg.ArtifactsDir(),
		SpecFile:          f.SpecFile,
		SrcDir:            f.SrcDir,
		PackageName:       f.PackageName,
		SbuildrcPath:      p.sbuildrcPath,
		Runner:            p.runner,
	}

	switch pt := p.cfg.PackageType.(type) {
	case config.DefaultPackage:
		sc.TarballURL = pt.TarballURL
		sc.TarballHash = pt.TarballHash
	case config.GitPackage:
		sc.GitURL = pt.URL
		sc.GitTag = pt.Tag
		sc.Submodules = pt.Submodules
	}
	return sc
}

// checkVersion enforces the pkg-builder version the configuration requires
func (p *Packager) checkVersion() error {
	required := p.cfg.BuildEnv.PkgBuilderVersion
	if required == "" {
		return nil
	}
	if p.running == version.DefaultReleaseVersion {
		log.Warn("Development build, skipping pkg-builder version check", "required", required)
		return nil
	}

	compat, err := version.CheckCompatible(p.running, required)
	if err != nil {
		return err
	}
	if compat == version.RequiresOlder {
		log.Warn("Configuration targets an older pkg-builder", "required", required, "running", p.running)
	}
	return nil
}

// Package runs the build pipeline, then the backend build
func (p *Packager) Package(ctx context.Context) error {
	if err := p.checkVersion(); err != nil {
		return err
	}
	return p.runBuild(ctx)
}

func (p *Packager) runBuild(ctx context.Context) error {

	log.Info("Packaging", "package", p.cfg.PackageFields.PackageName, "version", p.cfg.DebianVersion(), "codename", p.dist.Name)
	if err := build.PipelineFor(p.cfg.PackageType).Execute(ctx, p.StageContext()); err != nil {
		return err
	}
	if err := p.backend.Package(ctx); err != nil {
		return err
	}

	log.Info("Package built", "artifacts", p.cfg.ArtifactsDir())
	return nil
}

// CreateEnv recreates the chroot cache
func (p *Packager) CreateEnv(ctx context.Context) error {
	if err := p.checkVersion(); err != nil {
		return err
	}
	if err := p.backend.Clean(ctx); err != nil {
		return err
	}
	return p.backend.Create(ctx)
}

// CleanEnv removes the chroot cache
func (p *Packager) CleanEnv(ctx context.Context) error {
	if err := p.checkVersion(); err != nil {
		return err
	}
	return p.backend.Clean(ctx)
}

// Verify optionally packages first, then checks the artifacts against the
// verification config at verifyPath (pkg-builder-verify.toml by default)
func (p *Packager) Verify(ctx context.Context, verifyPath string, noPackage bool) ([]backend.VerifyResult, error) {
	if err := p.checkVersion(); err != nil {
		return nil, err
	}
	if verifyPath == "" {
		verifyPath = p.cfg.DefaultVerifyPath()
	} else {
		verifyPath = paths.Resolve(p.configRoot, verifyPath)
	}

	vc, err := config.LoadVerify(verifyPath)
	if err != nil {
		return nil, err
	}

	if !noPackage {
		if err := p.runBuild(ctx); err != nil {
			return nil, err
		}
	} else if !paths.IsDir(p.cfg.ArtifactsDir()) {
		return nil, errors.ErrVerificationFailed.WithMessagef("no build artifacts in %s", filepath.Clean(p.cfg.ArtifactsDir()))
	}

	return p.backend.Verify(ctx, vc.Hashes())
}

// RunLintian runs lintian against the produced .changes
func (p *Packager) RunLintian(ctx context.Context) error {
	if err := p.checkVersion(); err != nil {
		return err
	}
	return p.backend.RunLintian(ctx)
}

// RunPiuparts runs piuparts against the produced .deb
func (p *Packager) RunPiuparts(ctx context.Context) error {
	if err := p.checkVersion(); err != nil {
		return err
	}
	return p.backend.RunPiuparts(ctx)
}

// RunAutopkgtests runs autopkgtest against the produced .changes
func (p *Packager) RunAutopkgtests(ctx context.Context) error {
	if err := p.checkVersion(); err != nil {
		return err
	}
	return p.backend.RunAutopkgtests(ctx)
}
