package langenv

import (
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
)

// Spec is the flat [package_type.language_env] table of a package config.
// The language_env key selects which fields apply.
type Spec struct {
	LanguageEnv string `mapstructure:"language_env"`

	RustVersion      string `mapstructure:"rust_version"`
	RustBinaryURL    string `mapstructure:"rust_binary_url"`
	RustBinaryGPGAsc string `mapstructure:"rust_binary_gpg_asc"`

	GoVersion        string `mapstructure:"go_version"`
	GoBinaryURL      string `mapstructure:"go_binary_url"`
	GoBinaryChecksum string `mapstructure:"go_binary_checksum"`

	NodeVersion        string `mapstructure:"node_version"`
	NodeBinaryURL      string `mapstructure:"node_binary_url"`
	NodeBinaryChecksum string `mapstructure:"node_binary_checksum"`
	YarnVersion        string `mapstructure:"yarn_version"`

	IsOracle          bool        `mapstructure:"is_oracle"`
	JDKVersion        string      `mapstructure:"jdk_version"`
	JDKBinaryURL      string      `mapstructure:"jdk_binary_url"`
	JDKBinaryChecksum string      `mapstructure:"jdk_binary_checksum"`
	Gradle            *GradleSpec `mapstructure:"gradle"`

	DotnetPackages []DotnetPackageSpec `mapstructure:"dotnet_packages"`
	Deps           []string            `mapstructure:"deps"`

	NimVersion         string `mapstructure:"nim_version"`
	NimBinaryURL       string `mapstructure:"nim_binary_url"`
	NimVersionChecksum string `mapstructure:"nim_version_checksum"`
}

// GradleSpec is the [package_type.language_env.gradle] table
type GradleSpec struct {
	GradleVersion        string `mapstructure:"gradle_version"`
	GradleBinaryURL      string `mapstructure:"gradle_binary_url"`
	GradleBinaryChecksum string `mapstructure:"gradle_binary_checksum"`
}

// DotnetPackageSpec is one entry of dotnet_packages
type DotnetPackageSpec struct {
	Name string `mapstructure:"name"`
	Hash string `mapstructure:"hash"`
	URL  string `mapstructure:"url"`
}

// Parse converts a Spec into its typed variant and validates it
func Parse(s Spec) (Env, error) {
	node := NodeEnv{
		NodeVersion:        s.NodeVersion,
		NodeBinaryURL:      s.NodeBinaryURL,
		NodeBinaryChecksum: s.NodeBinaryChecksum,
		YarnVersion:        s.YarnVersion,
	}

	var env Env
	switch Kind(strings.ToLower(strings.TrimSpace(s.LanguageEnv))) {
	case Rust:
		env = RustEnv{Version: s.RustVersion, BinaryURL: s.RustBinaryURL, GPGAsc: s.RustBinaryGPGAsc}
	case Go:
		env = GoEnv{Version: s.GoVersion, BinaryURL: s.GoBinaryURL, BinaryChecksum: s.GoBinaryChecksum}
	case JavaScript:
		env = JavaScriptEnv{node}
	case TypeScript:
		env = TypeScriptEnv{node}
	case Java:
		j := JavaEnv{
			IsOracle:          s.IsOracle,
			JDKVersion:        s.JDKVersion,
			JDKBinaryURL:      s.JDKBinaryURL,
			JDKBinaryChecksum: s.JDKBinaryChecksum,
		}
		if s.Gradle != nil {
			j.Gradle = &Gradle{
				Version:        s.Gradle.GradleVersion,
				BinaryURL:      s.Gradle.GradleBinaryURL,
				BinaryChecksum: s.Gradle.GradleBinaryChecksum,
			}
		}
		env = j
	case Dotnet:
		d := DotnetEnv{Deps: s.Deps}
		for _, p := range s.DotnetPackages {
			d.Packages = append(d.Packages, DotnetPackage{Name: p.Name, Hash: p.Hash, URL: p.URL})
		}
		env = d
	case Nim:
		env = NimEnv{Version: s.NimVersion, BinaryURL: s.NimBinaryURL, VersionChecksum: s.NimVersionChecksum}
	case C:
		env = CEnv{}
	case Python:
		env = PythonEnv{}
	default:
		return nil, errors.ErrConfigInvalid.WithMessagef("unsupported language_env %q", s.LanguageEnv)
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}
