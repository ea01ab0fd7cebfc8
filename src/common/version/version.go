// Package version provides version information and version comparison for pkg-builder.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"golang.org/x/mod/semver"
)

// Info holds version information for pkg-builder.
// These values are typically set at build time via ldflags.
type Info struct {
	// Version is the full version string: "0.3.1-4f9f297"
	Version string

	// ReleaseVersion is the semantic version (e.g., "0.3.1")
	ReleaseVersion string

	// BuildDate is the ISO 8601 build timestamp
	BuildDate string

	// GitCommit is the short git commit hash
	GitCommit string
}

// Default values for unset version info
var (
	DefaultVersion        = "dev"
	DefaultReleaseVersion = "0.0.0"
	DefaultBuildDate      = "unknown"
	DefaultGitCommit      = "unknown"
)

// New creates a new Info with default values
func New() *Info {
	return &Info{
		Version:        DefaultVersion,
		ReleaseVersion: DefaultReleaseVersion,
		BuildDate:      DefaultBuildDate,
		GitCommit:      DefaultGitCommit,
	}
}

// GoVersion returns the Go runtime version
func GoVersion() string {
	return runtime.Version()
}

// String returns the full version string
func (i *Info) String() string {
	return i.Version
}

// Short returns a short version string (release version + commit)
func (i *Info) Short() string {
	return fmt.Sprintf("v%s-%s", i.ReleaseVersion, i.GitCommit)
}

// Map returns version info as a map (used by the version command's json/yaml output)
func (i *Info) Map() map[string]string {
	return map[string]string{
		"version":         i.Version,
		"release_version": i.ReleaseVersion,
		"build_date":      i.BuildDate,
		"git_commit":      i.GitCommit,
		"go_version":      GoVersion(),
	}
}

// Canonical turns "2.116.3" or "v2.116.3" into a semver string ("v2.116.3").
// It returns "" when the input is not a valid semantic version.
func Canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

// Matches reports whether an installed tool version equals the expected one.
// Semantic versions are compared semantically, anything else as raw strings.
func Matches(installed, expected string) bool {
	a, b := Canonical(installed), Canonical(expected)
	if a != "" && b != "" {
		return semver.Compare(a, b) == 0
	}
	return strings.TrimSpace(installed) == strings.TrimSpace(expected)
}

// Compatibility describes how a required version relates to the running one
type Compatibility int

const (
	// Same means the configuration targets exactly the running version
	Same Compatibility = iota
	// RequiresOlder means the configuration was written for an older version
	RequiresOlder
)

// CheckCompatible compares the running pkg-builder version with the version
// a configuration requires. A configuration requiring a newer version is an
// error; one requiring an older version is reported as RequiresOlder so the
// caller can warn.
func CheckCompatible(running, required string) (Compatibility, error) {
	r, q := Canonical(running), Canonical(required)
	if r == "" || q == "" {
		return Same, errors.ErrIncompatibleVersion.WithMessagef(
			"cannot compare pkg-builder version %q with required %q", running, required)
	}

	switch semver.Compare(q, r) {
	case 1:
		return Same, errors.ErrIncompatibleVersion.WithMessagef(
			"configuration requires pkg-builder %s, running %s", required, running)
	case -1:
		return RequiresOlder, nil
	default:
		return Same, nil
	}
}
