package config

import (
	"os"
	"path/filepath"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/logs"
	"github.com/bitswalk/pkg-builder/src/common/paths"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the config package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// Resolve turns a CLI argument into a config file path. A file is used as
// is, a directory is searched for pkg-builder.toml and an empty argument
// searches the current directory.
func Resolve(arg string) (string, error) {
	if arg == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.ErrConfigNotFound.WithCause(err)
		}
		arg = cwd
	}

	arg = paths.Expand(arg)
	switch {
	case paths.IsFile(arg):
		return filepath.Abs(arg)
	case paths.IsDir(arg):
		candidate := filepath.Join(arg, FileName)
		if !paths.IsFile(candidate) {
			return "", errors.ErrConfigNotFound.WithMessagef("no %s in %s", FileName, arg)
		}
		return filepath.Abs(candidate)
	default:
		return "", errors.ErrConfigNotFound.WithMessagef("%s does not exist", arg)
	}
}

// ResolveAndLoad resolves arg and loads the config it points to
func ResolveAndLoad(arg string) (*PkgConfig, error) {
	path, err := Resolve(arg)
	if err != nil {
		return nil, err
	}
	return Load(path)
}
