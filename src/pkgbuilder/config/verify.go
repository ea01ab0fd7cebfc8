package config

import (
	"path/filepath"
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/paths"
	"github.com/spf13/viper"
)

// PackageHash is an expected artifact file name and its SHA-1
type PackageHash struct {
	Name string `mapstructure:"name"`
	Hash string `mapstructure:"hash"`
}

// VerifyConfig is the content of pkg-builder-verify.toml
type VerifyConfig struct {
	Verify struct {
		PackageHash []PackageHash `mapstructure:"package_hash"`
	} `mapstructure:"verify"`
}

// Hashes returns the expected artifacts
func (v *VerifyConfig) Hashes() []PackageHash {
	return v.Verify.PackageHash
}

// DefaultVerifyPath returns pkg-builder-verify.toml next to the package config
func (c *PkgConfig) DefaultVerifyPath() string {
	return filepath.Join(c.Root, VerifyFileName)
}

// LoadVerify reads a verification config
func LoadVerify(path string) (*VerifyConfig, error) {
	path = paths.Expand(path)
	if !paths.IsFile(path) {
		return nil, errors.ErrConfigNotFound.WithMessagef("verify config %s does not exist", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.ErrConfigInvalid.WithMessagef("failed to parse %s", path).WithCause(err)
	}

	var vc VerifyConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, errors.ErrConfigInvalid.WithMessagef("failed to decode %s", path).WithCause(err)
	}

	if len(vc.Hashes()) == 0 {
		return nil, errors.ErrConfigInvalid.WithMessagef("%s declares no [[verify.package_hash]] entries", path)
	}
	for i, h := range vc.Hashes() {
		if strings.TrimSpace(h.Name) == "" || strings.TrimSpace(h.Hash) == "" {
			return nil, errors.ErrConfigInvalid.WithMessagef("%s: package_hash[%d] needs name and hash", path, i)
		}
	}
	return &vc, nil
}
