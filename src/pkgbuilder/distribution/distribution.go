// Package distribution maps configured codenames to Debian and Ubuntu releases.
package distribution

import (
	"path/filepath"
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
)

// Family is the distribution a release belongs to
type Family string

const (
	Debian Family = "debian"
	Ubuntu Family = "ubuntu"
)

// Distribution is a supported target release
type Distribution struct {
	Family Family
	// Codename is the short release name passed to the tools ("bookworm", "jammy")
	Codename string
	// Name is the codename as written in the configuration ("jammy jellyfish")
	Name string
}

// Mirrors and keyrings per family
const (
	DebianMirror  = "http://deb.debian.org/debian"
	UbuntuMirror  = "http://archive.ubuntu.com/ubuntu"
	DebianKeyring = "/usr/share/keyrings/debian-archive-keyring.gpg"
	UbuntuKeyring = "/usr/share/keyrings/ubuntu-archive-keyring.gpg"
)

var supported = map[string]Distribution{
	"bookworm":        {Family: Debian, Codename: "bookworm", Name: "bookworm"},
	"jammy jellyfish": {Family: Ubuntu, Codename: "jammy", Name: "jammy jellyfish"},
	"noble numbat":    {Family: Ubuntu, Codename: "noble", Name: "noble numbat"},
}

// Parse resolves a configured codename. Unknown codenames are rejected.
func Parse(codename string) (Distribution, error) {
	d, ok := supported[strings.ToLower(strings.TrimSpace(codename))]
	if !ok {
		return Distribution{}, errors.ErrInvalidCodename.WithMessagef("invalid codename %q, supported: %s", codename, strings.Join(Supported(), ", "))
	}
	return d, nil
}

// Supported lists the accepted codenames
func Supported() []string {
	return []string{"bookworm", "jammy jellyfish", "noble numbat"}
}

// IsUbuntu reports whether d is an Ubuntu release
func (d Distribution) IsUbuntu() bool {
	return d.Family == Ubuntu
}

// MirrorURL returns the package mirror used for chroots and piuparts
func (d Distribution) MirrorURL() string {
	if d.IsUbuntu() {
		return UbuntuMirror
	}
	return DebianMirror
}

// Keyring returns the archive keyring path used by piuparts
func (d Distribution) Keyring() string {
	if d.IsUbuntu() {
		return UbuntuKeyring
	}
	return DebianKeyring
}

// AutopkgtestImageName returns the qemu image file name for arch
func (d Distribution) AutopkgtestImageName(arch string) string {
	return "autopkgtest-" + d.Codename + "-" + arch + ".img"
}

// AutopkgtestImageCommand returns the command and arguments that build the
// qemu test image at imagePath.
func (d Distribution) AutopkgtestImageCommand(arch, imagePath string) (string, []string) {
	if d.IsUbuntu() {
		return "autopkgtest-buildvm-ubuntu-cloud", []string{
			"--release=" + d.Codename,
			"--arch=" + arch,
			"--output-dir=" + filepath.Dir(imagePath),
			"-v",
			"--mirror=" + d.MirrorURL(),
		}
	}
	return "autopkgtest-build-qemu", []string{
		d.Codename,
		imagePath,
		"--mirror=" + d.MirrorURL(),
		"--arch=" + arch,
	}
}

func (d Distribution) String() string {
	return d.Name
}
