package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/paths"
	"github.com/bitswalk/pkg-builder/src/common/version"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/command"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/config"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/distribution"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/langenv"
)

// Sbuild builds packages with sbuild in an unshare chroot
type Sbuild struct {
	cfg    *config.PkgConfig
	dist   distribution.Distribution
	runner command.Runner
	env    langenv.Env
}

// NewSbuild creates an sbuild backend for a loaded configuration
func NewSbuild(cfg *config.PkgConfig, dist distribution.Distribution, runner command.Runner) *Sbuild {
	return &Sbuild{
		cfg:    cfg,
		dist:   dist,
		runner: runner,
		env:    config.LanguageEnvOf(cfg.PackageType),
	}
}

// CacheFile is <sbuild_cache_dir>/<codename>-<arch>.tar.gz
func (s *Sbuild) CacheFile() string {
	return filepath.Join(s.cfg.BuildEnv.SbuildCacheDir, fmt.Sprintf("%s-%s.tar.gz", s.dist.Codename, s.cfg.BuildEnv.Arch))
}

// ImagePath is the cached autopkgtest qemu image
func (s *Sbuild) ImagePath() string {
	return filepath.Join(s.cfg.BuildEnv.SbuildCacheDir, s.dist.AutopkgtestImageName(s.cfg.BuildEnv.Arch))
}

// ArtifactPath returns <artifacts>/<name>_<version>-<revision>_<arch>.<ext>
func (s *Sbuild) ArtifactPath(ext string) string {
	f := s.cfg.PackageFields
	name := fmt.Sprintf("%s_%s_%s.%s", f.PackageName, s.cfg.DebianVersion(), s.cfg.BuildEnv.Arch, ext)
	return filepath.Join(s.cfg.ArtifactsDir(), name)
}

// Create builds the chroot tarball cache
func (s *Sbuild) Create(ctx context.Context) error {
	cache := s.CacheFile()
	if err := paths.EnsureDir(cache); err != nil {
		return errors.ErrBuildFailed.WithMessagef("failed to create %s", filepath.Dir(cache)).WithCause(err)
	}

	tmp, err := os.MkdirTemp("", "pkg-builder-chroot-")
	if err != nil {
		return errors.ErrBuildFailed.WithMessage("failed to create chroot temp dir").WithCause(err)
	}
	defer os.RemoveAll(tmp)

	log.Info("Creating chroot cache", "codename", s.dist.Codename, "arch", s.cfg.BuildEnv.Arch, "cache", cache)
	args := []string{
		"--chroot-mode=unshare",
		"--make-sbuild-tarball", cache,
		s.dist.Codename,
		tmp,
		s.dist.MirrorURL(),
	}
	if s.cfg.BuildEnv.Arch != "" {
		args = append([]string{"--arch=" + s.cfg.BuildEnv.Arch}, args...)
	}
	if err := s.runner.Execute(ctx, "sbuild-createchroot", args, ""); err != nil {
		return errors.ErrBuildFailed.WithMessage("sbuild-createchroot failed").WithCause(err)
	}
	return nil
}

// Clean removes the chroot cache file
func (s *Sbuild) Clean(ctx context.Context) error {
	cache := s.CacheFile()
	err := os.Remove(cache)
	switch {
	case err == nil:
		log.Info("Removed chroot cache", "cache", cache)
	case os.IsNotExist(err):
		log.Debug("No chroot cache to remove", "cache", cache)
	default:
		return errors.ErrBuildFailed.WithMessagef("failed to remove %s", cache).WithCause(err)
	}
	return nil
}

// Package runs sbuild in the build tree and the requested standalone checks
func (s *Sbuild) Package(ctx context.Context) error {
	s.checkToolVersion(ctx, "sbuild", s.cfg.BuildEnv.SbuildVersion)

	b := s.cfg.BuildEnv
	args := SbuildArgs(SbuildParams{
		Distribution:  s.dist,
		Arch:          b.Arch,
		CacheFile:     s.CacheFile(),
		SetupCommands: langenv.InstallerFor(s.env).BuildDeps(b.Arch, s.dist.Codename),
		RunLintian:    b.RunLintian,
	})

	log.Info("Building package", "package", s.cfg.PackageFields.PackageName, "codename", s.dist.Codename)
	if err := s.runner.Execute(ctx, "sbuild", args, s.cfg.BuildFilesDir()); err != nil {
		return errors.ErrBuildFailed.WithMessage("sbuild failed").WithCause(err)
	}

	if b.RunPiuparts {
		if err := s.RunPiuparts(ctx); err != nil {
			return err
		}
	}
	if b.RunAutopkgtest {
		if err := s.RunAutopkgtests(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RunLintian checks the produced .changes file
func (s *Sbuild) RunLintian(ctx context.Context) error {
	s.checkToolVersion(ctx, "lintian", s.cfg.BuildEnv.LintianVersion)

	args := LintianArgs(s.ArtifactPath("changes"), s.dist)
	if err := s.runner.Execute(ctx, "lintian", args, s.cfg.ArtifactsDir()); err != nil {
		return errors.ErrBuildFailed.WithMessage("lintian failed").WithCause(err)
	}
	return nil
}

// RunPiuparts tests install, upgrade and purge of the produced .deb
func (s *Sbuild) RunPiuparts(ctx context.Context) error {
	s.checkToolVersion(ctx, "piuparts", s.cfg.BuildEnv.PiupartsVersion)

	args := PiupartsArgs(PiupartsParams{
		Distribution: s.dist,
		Arch:         s.cfg.BuildEnv.Arch,
		LanguageEnv:  s.env,
		DebFile:      s.ArtifactPath("deb"),
	})
	if err := s.runner.ExecuteWithPrivilege(ctx, "piuparts", args, s.cfg.ArtifactsDir()); err != nil {
		return errors.ErrBuildFailed.WithMessage("piuparts failed").WithCause(err)
	}
	return nil
}

// RunAutopkgtests runs the package test suite in a cached qemu image,
// building the image first when it does not exist
func (s *Sbuild) RunAutopkgtests(ctx context.Context) error {
	s.checkToolVersion(ctx, "autopkgtest", s.cfg.BuildEnv.AutopkgtestVersion)

	image := s.ImagePath()
	if paths.IsFile(image) {
		log.Info("Using cached autopkgtest image", "image", image)
	} else {
		if err := paths.EnsureDir(image); err != nil {
			return errors.ErrBuildFailed.WithMessagef("failed to create %s", filepath.Dir(image)).WithCause(err)
		}
		log.Info("Building autopkgtest image", "image", image)
		name, args := s.dist.AutopkgtestImageCommand(s.cfg.BuildEnv.Arch, image)
		if err := s.runner.ExecuteWithPrivilege(ctx, name, args, filepath.Dir(image)); err != nil {
			return errors.ErrBuildFailed.WithMessagef("%s failed", name).WithCause(err)
		}
	}

	deps := langenv.InstallerFor(s.env).TestDeps(s.dist.Codename)
	args := AutopkgtestArgs(s.ArtifactPath("changes"), deps, image)
	if err := s.runner.Execute(ctx, "autopkgtest", args, s.cfg.ArtifactsDir()); err != nil {
		return errors.ErrBuildFailed.WithMessage("autopkgtest failed").WithCause(err)
	}
	return nil
}

// checkToolVersion warns when the installed package version of tool differs
// from the expected one. It never fails.
func (s *Sbuild) checkToolVersion(ctx context.Context, tool, expected string) {
	if expected == "" {
		return
	}
	out, err := s.runner.Output(ctx, "dpkg-query", []string{"-W", "-f=${Version}", tool}, "")
	if err != nil {
		log.Warn("Could not determine installed version", "tool", tool, "error", err)
		return
	}
	installed := strings.TrimSpace(string(out))
	if !version.Matches(installed, expected) {
		log.Warn("Installed tool version differs from configuration", "tool", tool, "installed", installed, "expected", expected)
	}
}
