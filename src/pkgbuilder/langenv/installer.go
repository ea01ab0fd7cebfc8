package langenv

import (
	"os"
	"strings"
)

// Installer yields the shell commands that make a language toolchain
// available inside the build chroot and the autopkgtest VM
type Installer interface {
	BuildDeps(arch, codename string) []string
	TestDeps(codename string) []string
}

// InstallerFor returns the installer of a language environment
func InstallerFor(env Env) Installer {
	switch e := env.(type) {
	case RustEnv:
		return rustInstaller{e}
	case GoEnv:
		return goInstaller{e}
	case JavaScriptEnv:
		return nodeInstaller{env: e.NodeEnv}
	case TypeScriptEnv:
		return nodeInstaller{env: e.NodeEnv, typescript: true}
	case JavaEnv:
		return javaInstaller{e}
	case DotnetEnv:
		return dotnetInstaller{e}
	case NimEnv:
		return nimInstaller{e}
	default:
		return noopInstaller{}
	}
}

// Render returns one command per non-empty template line with ${name}
// placeholders substituted. Lines are split before substitution so a
// multi-line value (a GPG signature) stays within its command. Unknown
// placeholders expand to the empty string.
func Render(tmpl string, vars map[string]string) []string {
	mapping := func(key string) string { return vars[key] }

	var cmds []string
	for _, line := range strings.Split(tmpl, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmds = append(cmds, os.Expand(line, mapping))
	}
	return cmds
}

type noopInstaller struct{}

func (noopInstaller) BuildDeps(string, string) []string { return nil }
func (noopInstaller) TestDeps(string) []string          { return nil }

type rustInstaller struct{ env RustEnv }

func (i rustInstaller) BuildDeps(arch, codename string) []string {
	return Render(rustTemplate, map[string]string{
		"arch":                arch,
		"codename":            codename,
		"rust_version":        i.env.Version,
		"rust_binary_url":     i.env.BinaryURL,
		"rust_binary_gpg_asc": i.env.GPGAsc,
	})
}

// Rust packages ship compiled binaries, tests need no toolchain
func (rustInstaller) TestDeps(string) []string { return nil }

type goInstaller struct{ env GoEnv }

func (i goInstaller) vars(arch, codename string) map[string]string {
	return map[string]string{
		"arch":               arch,
		"codename":           codename,
		"go_version":         i.env.Version,
		"go_binary_url":      i.env.BinaryURL,
		"go_binary_checksum": i.env.BinaryChecksum,
	}
}

func (i goInstaller) BuildDeps(arch, codename string) []string {
	return Render(goTemplate, i.vars(arch, codename))
}

func (i goInstaller) TestDeps(codename string) []string {
	return Render(goTemplate, i.vars("", codename))
}

type nodeInstaller struct {
	env        NodeEnv
	typescript bool
}

func (i nodeInstaller) render(arch, codename string) []string {
	vars := map[string]string{
		"arch":                 arch,
		"codename":             codename,
		"node_version":         i.env.NodeVersion,
		"node_binary_url":      i.env.NodeBinaryURL,
		"node_binary_checksum": i.env.NodeBinaryChecksum,
		"yarn_version":         i.env.YarnVersion,
	}
	cmds := Render(nodeTemplate, vars)
	if i.env.YarnVersion != "" {
		cmds = append(cmds, Render(yarnTemplate, vars)...)
	}
	if i.typescript {
		cmds = append(cmds, Render(typescriptTemplate, vars)...)
	}
	return cmds
}

func (i nodeInstaller) BuildDeps(arch, codename string) []string {
	return i.render(arch, codename)
}

func (i nodeInstaller) TestDeps(codename string) []string {
	return i.render("", codename)
}

type javaInstaller struct{ env JavaEnv }

func (i javaInstaller) render(arch, codename string) []string {
	vars := map[string]string{
		"arch":                arch,
		"codename":            codename,
		"jdk_version":         i.env.JDKVersion,
		"jdk_binary_url":      i.env.JDKBinaryURL,
		"jdk_binary_checksum": i.env.JDKBinaryChecksum,
	}
	cmds := Render(jdkTemplate, vars)
	if i.env.Gradle != nil {
		vars["gradle_version"] = i.env.Gradle.Version
		vars["gradle_binary_url"] = i.env.Gradle.BinaryURL
		vars["gradle_binary_checksum"] = i.env.Gradle.BinaryChecksum
		cmds = append(cmds, Render(gradleTemplate, vars)...)
	}
	return cmds
}

func (i javaInstaller) BuildDeps(arch, codename string) []string {
	return i.render(arch, codename)
}

// Only the JDK is needed to run tests
func (i javaInstaller) TestDeps(codename string) []string {
	return Render(jdkTemplate, map[string]string{
		"codename":            codename,
		"jdk_version":         i.env.JDKVersion,
		"jdk_binary_url":      i.env.JDKBinaryURL,
		"jdk_binary_checksum": i.env.JDKBinaryChecksum,
	})
}

type dotnetInstaller struct{ env DotnetEnv }

func (i dotnetInstaller) render(codename string) []string {
	var cmds []string
	if len(i.env.Deps) > 0 {
		cmds = append(cmds, "apt install -y "+strings.Join(i.env.Deps, " "))
	}
	cmds = append(cmds, "apt install -y wget")
	for _, p := range i.env.Packages {
		cmds = append(cmds, Render(dotnetPackageTemplate, map[string]string{
			"codename": codename,
			"name":     p.Name,
			"hash":     p.Hash,
			"url":      p.URL,
		})...)
	}
	return append(cmds, "dotnet --info")
}

func (i dotnetInstaller) BuildDeps(_, codename string) []string {
	return i.render(codename)
}

func (i dotnetInstaller) TestDeps(codename string) []string {
	return i.render(codename)
}

type nimInstaller struct{ env NimEnv }

func (i nimInstaller) BuildDeps(arch, codename string) []string {
	return Render(nimTemplate, map[string]string{
		"arch":                 arch,
		"codename":             codename,
		"nim_version":          i.env.Version,
		"nim_binary_url":       i.env.BinaryURL,
		"nim_version_checksum": i.env.VersionChecksum,
	})
}

func (i nimInstaller) TestDeps(codename string) []string {
	return i.BuildDeps("", codename)
}
