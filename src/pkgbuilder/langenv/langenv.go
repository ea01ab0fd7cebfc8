// Package langenv models the language toolchains a package builds with and
// the shell commands that install them inside the build chroot.
package langenv

import (
	"fmt"
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
)

// Kind tags a language environment
type Kind string

const (
	Rust       Kind = "rust"
	Go         Kind = "go"
	JavaScript Kind = "javascript"
	TypeScript Kind = "typescript"
	Java       Kind = "java"
	Dotnet     Kind = "dotnet"
	Nim        Kind = "nim"
	C          Kind = "c"
	Python     Kind = "python"
)

// Env is one language environment variant
type Env interface {
	Kind() Kind
	Validate() error
}

// RustEnv installs an upstream Rust toolchain verified by its GPG signature
type RustEnv struct {
	Version   string
	BinaryURL string
	GPGAsc    string
}

// GoEnv installs an upstream Go toolchain
type GoEnv struct {
	Version        string
	BinaryURL      string
	BinaryChecksum string
}

// NodeEnv is shared by the JavaScript and TypeScript variants
type NodeEnv struct {
	NodeVersion        string
	NodeBinaryURL      string
	NodeBinaryChecksum string
	YarnVersion        string
}

// JavaScriptEnv installs Node.js (and optionally yarn)
type JavaScriptEnv struct{ NodeEnv }

// TypeScriptEnv installs Node.js, yarn and the TypeScript compiler
type TypeScriptEnv struct{ NodeEnv }

// Gradle is an optional Gradle distribution for Java packages
type Gradle struct {
	Version        string
	BinaryURL      string
	BinaryChecksum string
}

// JavaEnv installs a JDK and optionally Gradle
type JavaEnv struct {
	IsOracle          bool
	JDKVersion        string
	JDKBinaryURL      string
	JDKBinaryChecksum string
	Gradle            *Gradle
}

// DotnetPackage is one Microsoft .deb package pinned by SHA-1
type DotnetPackage struct {
	Name string
	Hash string
	URL  string
}

// DotnetEnv installs pinned .NET packages and extra apt dependencies
type DotnetEnv struct {
	Packages []DotnetPackage
	Deps     []string
}

// NimEnv installs an upstream Nim toolchain
type NimEnv struct {
	Version         string
	BinaryURL       string
	VersionChecksum string
}

// CEnv needs nothing beyond build-essential
type CEnv struct{}

// PythonEnv relies on distribution packages only
type PythonEnv struct{}

func (RustEnv) Kind() Kind       { return Rust }
func (GoEnv) Kind() Kind         { return Go }
func (JavaScriptEnv) Kind() Kind { return JavaScript }
func (TypeScriptEnv) Kind() Kind { return TypeScript }
func (JavaEnv) Kind() Kind       { return Java }
func (DotnetEnv) Kind() Kind     { return Dotnet }
func (NimEnv) Kind() Kind        { return Nim }
func (CEnv) Kind() Kind          { return C }
func (PythonEnv) Kind() Kind     { return Python }

// requireFields returns ErrConfigInvalid naming the first empty field
func requireFields(kind Kind, fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return errors.ErrConfigInvalid.WithMessagef("%s language env: %s must not be empty", kind, f[0])
		}
	}
	return nil
}

func (e RustEnv) Validate() error {
	return requireFields(Rust,
		[2]string{"rust_version", e.Version},
		[2]string{"rust_binary_url", e.BinaryURL},
		[2]string{"rust_binary_gpg_asc", e.GPGAsc})
}

func (e GoEnv) Validate() error {
	return requireFields(Go,
		[2]string{"go_version", e.Version},
		[2]string{"go_binary_url", e.BinaryURL},
		[2]string{"go_binary_checksum", e.BinaryChecksum})
}

func (e NodeEnv) validate(kind Kind) error {
	return requireFields(kind,
		[2]string{"node_version", e.NodeVersion},
		[2]string{"node_binary_url", e.NodeBinaryURL},
		[2]string{"node_binary_checksum", e.NodeBinaryChecksum})
}

func (e JavaScriptEnv) Validate() error { return e.validate(JavaScript) }

func (e TypeScriptEnv) Validate() error {
	if err := e.validate(TypeScript); err != nil {
		return err
	}
	return requireFields(TypeScript, [2]string{"yarn_version", e.YarnVersion})
}

func (e JavaEnv) Validate() error {
	if err := requireFields(Java,
		[2]string{"jdk_version", e.JDKVersion},
		[2]string{"jdk_binary_url", e.JDKBinaryURL},
		[2]string{"jdk_binary_checksum", e.JDKBinaryChecksum}); err != nil {
		return err
	}
	if e.Gradle != nil {
		return requireFields(Java,
			[2]string{"gradle_version", e.Gradle.Version},
			[2]string{"gradle_binary_url", e.Gradle.BinaryURL},
			[2]string{"gradle_binary_checksum", e.Gradle.BinaryChecksum})
	}
	return nil
}

func (e DotnetEnv) Validate() error {
	if len(e.Packages) == 0 {
		return errors.ErrConfigInvalid.WithMessage("dotnet language env: dotnet_packages must not be empty")
	}
	for i, p := range e.Packages {
		if err := requireFields(Dotnet,
			[2]string{fmt.Sprintf("dotnet_packages[%d].name", i), p.Name},
			[2]string{fmt.Sprintf("dotnet_packages[%d].hash", i), p.Hash},
			[2]string{fmt.Sprintf("dotnet_packages[%d].url", i), p.URL}); err != nil {
			return err
		}
	}
	return nil
}

func (e NimEnv) Validate() error {
	return requireFields(Nim,
		[2]string{"nim_version", e.Version},
		[2]string{"nim_binary_url", e.BinaryURL},
		[2]string{"nim_version_checksum", e.VersionChecksum})
}

func (CEnv) Validate() error      { return nil }
func (PythonEnv) Validate() error { return nil }
