package backend

import (
	"fmt"

	"github.com/bitswalk/pkg-builder/src/pkgbuilder/distribution"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/langenv"
)

// NobleComponentSetup enables the universe, restricted and multiverse
// components inside a noble chroot
var NobleComponentSetup = []string{
	"apt-get update",
	"apt-get install -y software-properties-common",
	"add-apt-repository -y universe",
	"add-apt-repository -y restricted",
	"add-apt-repository -y multiverse",
	"apt-get update",
}

// LintianOptions returns the lintian flags shared by the inline sbuild run
// and the standalone run
func LintianOptions(dist distribution.Distribution) []string {
	opts := []string{
		"--suppress-tags=bad-distribution-in-changes-file",
		"-i",
		"-I",
		"--tag-display-limit=0",
		"--fail-on=warning",
		"--fail-on=error",
		"--suppress-tags=debug-file-with-no-debug-symbols",
	}
	if dist.Codename == "jammy" || dist.Codename == "noble" {
		opts = append(opts, "--suppress-tags=malformed-deb-archive")
	}
	return opts
}

// SbuildParams holds the inputs of an sbuild invocation
type SbuildParams struct {
	Distribution  distribution.Distribution
	Arch          string
	CacheFile     string
	SetupCommands []string
	RunLintian    bool
}

// SbuildArgs builds the sbuild argument list. piuparts and autopkgtest are
// never run inline.
func SbuildArgs(p SbuildParams) []string {
	args := []string{
		"-d", p.Distribution.Codename,
		"-A",
		"-s",
		"--source-only-changes",
		"-c", p.CacheFile,
		"-v",
		"--chroot-mode=unshare",
	}
	if p.Arch != "" {
		args = append(args, "--arch="+p.Arch)
	}

	var setup []string
	if p.Distribution.Codename == "noble" {
		setup = append(setup, NobleComponentSetup...)
	}
	setup = append(setup, p.SetupCommands...)
	for _, cmd := range setup {
		args = append(args, "--chroot-setup-commands="+cmd)
	}

	args = append(args,
		"--no-run-piuparts",
		"--no-apt-upgrade",
		"--no-apt-distupgrade",
	)

	if p.RunLintian {
		args = append(args, "--run-lintian")
		for _, opt := range LintianOptions(p.Distribution) {
			args = append(args, "--lintian-opt="+opt)
		}
	} else {
		args = append(args, "--no-run-lintian")
	}

	return append(args, "--no-run-autopkgtest")
}

// LintianArgs builds the standalone lintian argument list
func LintianArgs(changesFile string, dist distribution.Distribution) []string {
	return append(LintianOptions(dist), changesFile)
}

// PiupartsParams holds the inputs of a piuparts run
type PiupartsParams struct {
	Distribution distribution.Distribution
	Arch         string
	LanguageEnv  langenv.Env
	DebFile      string
}

// microsoftRepo returns the packages.microsoft.com apt line for releases
// whose .NET packages come from Microsoft
func microsoftRepo(dist distribution.Distribution, arch string) string {
	switch dist.Codename {
	case "bookworm":
		return fmt.Sprintf("deb [arch=%s] https://packages.microsoft.com/debian/12/prod bookworm main", arch)
	case "jammy":
		return fmt.Sprintf("deb [arch=%s] https://packages.microsoft.com/ubuntu/22.04/prod jammy main", arch)
	default:
		return ""
	}
}

// PiupartsArgs builds the piuparts argument list
func PiupartsArgs(p PiupartsParams) []string {
	args := []string{
		"-d", p.Distribution.Codename,
		"-m", p.Distribution.MirrorURL(),
		"--bindmount=/dev",
		"--keyring=" + p.Distribution.Keyring(),
		"--verbose",
	}

	if p.LanguageEnv != nil && p.LanguageEnv.Kind() == langenv.Dotnet {
		if repo := microsoftRepo(p.Distribution, p.Arch); repo != "" {
			args = append(args, "--extra-repo="+repo, "--do-not-verify-signatures")
		}
	}

	return append(args, p.DebFile)
}

// AutopkgtestArgs builds the autopkgtest argument list for a qemu image
func AutopkgtestArgs(changesFile string, testDeps []string, imagePath string) []string {
	args := []string{changesFile, "--no-built-binaries", "--apt-upgrade"}
	for _, dep := range testDeps {
		args = append(args, "--setup-commands="+dep)
	}
	return append(args, "--", "qemu", imagePath)
}
