// Package config loads and validates pkg-builder package configurations.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/paths"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/langenv"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/source"
	"github.com/spf13/viper"
)

const (
	// FileName is searched for when a directory is given
	FileName = "pkg-builder.toml"

	// VerifyFileName is the default verification config next to FileName
	VerifyFileName = "pkg-builder-verify.toml"

	DefaultWorkdir        = "~/.pkg-builder/packages"
	DefaultSbuildCacheDir = "~/.cache/sbuild"
	DefaultSrcDir         = "src"
)

// PkgConfig is a loaded package configuration
type PkgConfig struct {
	PackageFields PackageFields
	PackageType   PackageType
	BuildEnv      BuildEnv

	// Path is the config file, Root its directory
	Path string
	Root string
}

// PackageFields is the [package_fields] table
type PackageFields struct {
	SpecFile       string `mapstructure:"spec_file"`
	PackageName    string `mapstructure:"package_name"`
	VersionNumber  string `mapstructure:"version_number"`
	RevisionNumber string `mapstructure:"revision_number"`
	Homepage       string `mapstructure:"homepage"`
	SrcDir         string `mapstructure:"src_dir"`
}

// BuildEnv is the [build_env] table
type BuildEnv struct {
	Codename           string `mapstructure:"codename"`
	Arch               string `mapstructure:"arch"`
	PkgBuilderVersion  string `mapstructure:"pkg_builder_version"`
	DebcrafterVersion  string `mapstructure:"debcrafter_version"`
	LintianVersion     string `mapstructure:"lintian_version"`
	PiupartsVersion    string `mapstructure:"piuparts_version"`
	AutopkgtestVersion string `mapstructure:"autopkgtest_version"`
	SbuildVersion      string `mapstructure:"sbuild_version"`
	RunLintian         bool   `mapstructure:"run_lintian"`
	RunPiuparts        bool   `mapstructure:"run_piuparts"`
	RunAutopkgtest     bool   `mapstructure:"run_autopkgtest"`
	SbuildCacheDir     string `mapstructure:"sbuild_cache_dir"`
	Workdir            string `mapstructure:"workdir"`
}

// PackageType is one of DefaultPackage, GitPackage or VirtualPackage
type PackageType interface {
	packageType() string
}

// DefaultPackage builds from an upstream tarball
type DefaultPackage struct {
	TarballURL  string
	TarballHash string
	LanguageEnv langenv.Env
}

// GitPackage builds from a git tag with pinned submodules
type GitPackage struct {
	Tag         string
	URL         string
	Submodules  []source.SubModule
	LanguageEnv langenv.Env
}

// VirtualPackage has no sources, only debian metadata
type VirtualPackage struct{}

func (DefaultPackage) packageType() string { return "default" }
func (GitPackage) packageType() string     { return "git" }
func (VirtualPackage) packageType() string { return "virtual" }

// LanguageEnvOf returns the language environment of a package type, nil
// for virtual packages
func LanguageEnvOf(pt PackageType) langenv.Env {
	switch p := pt.(type) {
	case DefaultPackage:
		return p.LanguageEnv
	case GitPackage:
		return p.LanguageEnv
	default:
		return nil
	}
}

type rawConfig struct {
	PackageFields PackageFields  `mapstructure:"package_fields"`
	PackageType   rawPackageType `mapstructure:"package_type"`
	BuildEnv      BuildEnv       `mapstructure:"build_env"`
}

type rawPackageType struct {
	PackageType string             `mapstructure:"package_type"`
	TarballURL  string             `mapstructure:"tarball_url"`
	TarballHash string             `mapstructure:"tarball_hash"`
	GitTag      string             `mapstructure:"git_tag"`
	GitURL      string             `mapstructure:"git_url"`
	Submodules  []source.SubModule `mapstructure:"submodules"`
	LanguageEnv *langenv.Spec      `mapstructure:"language_env"`
}

// Load reads, resolves and validates the config file at path
func Load(path string) (*PkgConfig, error) {
	abs, err := filepath.Abs(paths.Expand(path))
	if err != nil {
		return nil, errors.ErrConfigNotFound.WithMessagef("invalid config path %s", path).WithCause(err)
	}

	v := viper.New()
	v.SetConfigFile(abs)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		if !paths.IsFile(abs) {
			return nil, errors.ErrConfigNotFound.WithMessagef("config file %s does not exist", abs)
		}
		return nil, errors.ErrConfigInvalid.WithMessagef("failed to parse %s", abs).WithCause(err)
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, errors.ErrConfigInvalid.WithMessagef("failed to decode %s", abs).WithCause(err)
	}

	cfg, err := fromRaw(raw, abs)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug("Loaded package config", "path", abs, "package", cfg.PackageFields.PackageName, "type", cfg.PackageType.packageType())
	return cfg, nil
}

func fromRaw(raw rawConfig, path string) (*PkgConfig, error) {
	root := filepath.Dir(path)
	cfg := &PkgConfig{
		PackageFields: raw.PackageFields,
		BuildEnv:      raw.BuildEnv,
		Path:          path,
		Root:          root,
	}

	pt, err := parsePackageType(raw.PackageType)
	if err != nil {
		return nil, err
	}
	if d, ok := pt.(DefaultPackage); ok && d.TarballURL != "" && !strings.HasPrefix(d.TarballURL, "http") {
		d.TarballURL = paths.Resolve(root, d.TarballURL)
		pt = d
	}
	cfg.PackageType = pt

	f := &cfg.PackageFields
	f.SpecFile = paths.Resolve(root, f.SpecFile)
	if f.SrcDir == "" {
		f.SrcDir = DefaultSrcDir
	}
	f.SrcDir = paths.Resolve(root, f.SrcDir)

	b := &cfg.BuildEnv
	if b.Workdir == "" {
		b.Workdir = filepath.Join(DefaultWorkdir, codenameDir(b.Codename))
	}
	b.Workdir = paths.Resolve(root, b.Workdir)
	if b.SbuildCacheDir == "" {
		b.SbuildCacheDir = DefaultSbuildCacheDir
	}
	b.SbuildCacheDir = paths.Resolve(root, b.SbuildCacheDir)

	return cfg, nil
}

func parsePackageType(raw rawPackageType) (PackageType, error) {
	kind := strings.ToLower(strings.TrimSpace(raw.PackageType))
	if kind == "virtual" {
		return VirtualPackage{}, nil
	}
	if kind != "default" && kind != "git" {
		return nil, errors.ErrConfigInvalid.WithMessagef("unsupported package_type %q", raw.PackageType)
	}

	if raw.LanguageEnv == nil {
		return nil, errors.ErrConfigInvalid.WithMessagef("package_type %s requires a [package_type.language_env] table", kind)
	}
	env, err := langenv.Parse(*raw.LanguageEnv)
	if err != nil {
		return nil, err
	}

	if kind == "git" {
		return GitPackage{
			Tag:         raw.GitTag,
			URL:         raw.GitURL,
			Submodules:  raw.Submodules,
			LanguageEnv: env,
		}, nil
	}
	return DefaultPackage{
		TarballURL:  raw.TarballURL,
		TarballHash: raw.TarballHash,
		LanguageEnv: env,
	}, nil
}

// codenameDir turns "jammy jellyfish" into "jammy"
func codenameDir(codename string) string {
	fields := strings.Fields(strings.ToLower(codename))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Validate checks every field the build relies on
func (c *PkgConfig) Validate() error {
	f := c.PackageFields
	b := c.BuildEnv

	required := [][2]string{
		{"package_fields.package_name", f.PackageName},
		{"package_fields.version_number", f.VersionNumber},
		{"package_fields.revision_number", f.RevisionNumber},
		{"package_fields.spec_file", f.SpecFile},
		{"build_env.codename", b.Codename},
		{"build_env.arch", b.Arch},
		{"build_env.debcrafter_version", b.DebcrafterVersion},
	}

	switch p := c.PackageType.(type) {
	case DefaultPackage:
		required = append(required, [2]string{"package_type.tarball_url", p.TarballURL})
	case GitPackage:
		required = append(required,
			[2]string{"package_type.git_url", p.URL},
			[2]string{"package_type.git_tag", p.Tag})
		for i, s := range p.Submodules {
			required = append(required,
				[2]string{fmt.Sprintf("package_type.submodules[%d].commit", i), s.Commit},
				[2]string{fmt.Sprintf("package_type.submodules[%d].path", i), s.Path})
		}
	case VirtualPackage:
	default:
		return errors.ErrConfigInvalid.WithMessage("package_type not set")
	}

	for _, r := range required {
		if strings.TrimSpace(r[1]) == "" {
			return errors.ErrConfigInvalid.WithMessagef("%s must not be empty", r[0])
		}
	}

	if strings.ContainsAny(f.PackageName, "/ ") {
		return errors.ErrConfigInvalid.WithMessagef("package_name %q must not contain spaces or slashes", f.PackageName)
	}
	return nil
}

// ArtifactsDir is <workdir>/<name>-<version>-<revision>
func (c *PkgConfig) ArtifactsDir() string {
	f := c.PackageFields
	return filepath.Join(c.BuildEnv.Workdir, fmt.Sprintf("%s-%s-%s", f.PackageName, f.VersionNumber, f.RevisionNumber))
}

// BuildFilesDir is the extracted tree, <artifacts>/<name>-<version>
func (c *PkgConfig) BuildFilesDir() string {
	f := c.PackageFields
	return filepath.Join(c.ArtifactsDir(), fmt.Sprintf("%s-%s", f.PackageName, f.VersionNumber))
}

// TarballPath is <artifacts>/<name>_<version>.orig.tar.gz
func (c *PkgConfig) TarballPath() string {
	f := c.PackageFields
	return filepath.Join(c.ArtifactsDir(), fmt.Sprintf("%s_%s.orig.tar.gz", f.PackageName, f.VersionNumber))
}

// DebianVersion is <version>-<revision>
func (c *PkgConfig) DebianVersion() string {
	return c.PackageFields.VersionNumber + "-" + c.PackageFields.RevisionNumber
}
