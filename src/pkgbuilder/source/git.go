package source

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/command"
)

// SubModule pins a git submodule at path to a commit
type SubModule struct {
	Commit string `mapstructure:"commit"`
	Path   string `mapstructure:"path"`
}

// CloneAndCheckout shallow-clones repoURL at tag into dest, pins every
// declared submodule to its commit, drops .git and normalizes timestamps so
// the tree can be packed reproducibly.
func CloneAndCheckout(ctx context.Context, runner command.Runner, repoURL, tag, dest string, submodules []SubModule) error {
	if err := command.LookPath("git-lfs"); err != nil {
		return errors.ErrGitLFSMissing.WithCause(err)
	}

	log.Info("Cloning repository", "url", repoURL, "tag", tag, "dest", dest)
	cloneArgs := []string{"clone", "--depth=1", "--branch", tag, repoURL, dest}
	if _, err := runner.Output(ctx, "git", cloneArgs, ""); err != nil {
		return errors.ErrGitClone.WithCause(err).WithMessagef("failed to clone %s at tag %s", repoURL, tag)
	}

	if _, err := runner.Output(ctx, "git", []string{"submodule", "init"}, dest); err != nil {
		return errors.ErrGitSubmoduleInit.WithCause(err)
	}
	updateArgs := []string{"submodule", "update", "--init", "--recursive", "--depth=1"}
	if _, err := runner.Output(ctx, "git", updateArgs, dest); err != nil {
		return errors.ErrGitSubmoduleInit.WithCause(err).WithMessage("failed to update submodules")
	}

	// A shallow submodule's default tip need not contain the pinned commit,
	// so fetch the commit object before checking it out.
	for _, sm := range submodules {
		dir := filepath.Join(dest, sm.Path)
		log.Info("Pinning submodule", "path", sm.Path, "commit", sm.Commit)

		if _, err := runner.Output(ctx, "git", []string{"fetch", "origin", sm.Commit}, dir); err != nil {
			return errors.ErrGitSubmoduleCheckout.WithCause(err).WithMessagef(
				"failed to fetch commit %s for submodule %s", sm.Commit, sm.Path)
		}
		if _, err := runner.Output(ctx, "git", []string{"checkout", sm.Commit}, dir); err != nil {
			return errors.ErrGitSubmoduleCheckout.WithCause(err).WithMessagef(
				"failed to checkout commit %s for submodule %s", sm.Commit, sm.Path)
		}
	}

	if err := os.RemoveAll(filepath.Join(dest, ".git")); err != nil {
		return errors.ErrGitCleanup.WithCause(err).WithMessagef("failed to remove .git from %s", dest)
	}

	if err := NormalizeTimestamps(dest); err != nil {
		return errors.ErrGitCleanup.WithCause(err).WithMessagef("failed to reset timestamps in %s", dest)
	}

	return nil
}
