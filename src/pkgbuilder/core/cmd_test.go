package core

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/spf13/cobra"
)

// executeCommand runs a cobra command with the given args and returns stdout/stderr
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"version", "package", "env", "lintian", "piuparts", "autopkgtest", "verify"}

	commands := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		commands[cmd.Name()] = true
	}
	for _, name := range expected {
		if !commands[name] {
			t.Errorf("expected subcommand %q not found on root", name)
		}
	}
}

func TestEnvCommand_HasSubcommands(t *testing.T) {
	commands := make(map[string]bool)
	for _, cmd := range envCmd.Commands() {
		commands[cmd.Name()] = true
	}
	for _, name := range []string{"create", "clean"} {
		if !commands[name] {
			t.Errorf("expected env subcommand %q not found", name)
		}
	}
}

func TestVersionCommand_JSON(t *testing.T) {
	out, err := executeCommand(rootCmd, "version", "-o", "json")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version output is not JSON: %v\n%s", err, out)
	}
	if info["release_version"] != VersionInfo.ReleaseVersion {
		t.Errorf("release_version = %q", info["release_version"])
	}
}

func writePackage(t *testing.T, codename string) string {
	t.Helper()
	dir := t.TempDir()
	content := `
[package_fields]
spec_file = "hello.sss"
package_name = "hello"
version_number = "1.0.0"
revision_number = "1"

[package_type]
package_type = "virtual"

[build_env]
codename = "` + codename + `"
arch = "amd64"
debcrafter_version = "latest"
workdir = "work"
sbuild_cache_dir = "cache"
`
	if err := os.WriteFile(filepath.Join(dir, "pkg-builder.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestVerifyCommand_NoPackage(t *testing.T) {
	dir := writePackage(t, "bookworm")
	artifacts := filepath.Join(dir, "work", "hello-1.0.0-1")
	if err := os.MkdirAll(artifacts, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(artifacts, "hello_1.0.0-1_amd64.deb"), []byte("hello\n"), 0644); err != nil {
		t.Fatal(err)
	}
	verify := `
[[verify.package_hash]]
name = "hello_1.0.0-1_amd64.deb"
hash = "f572d396fae9206628714fb2ce00f72e94f2258f"

[[verify.package_hash]]
name = "hello_1.0.0-1_amd64.changes"
hash = "f572d396fae9206628714fb2ce00f72e94f2258f"
`
	if err := os.WriteFile(filepath.Join(dir, "pkg-builder-verify.toml"), []byte(verify), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "verify", dir, "--no-package", "-o", "table")
	if !errors.Is(err, errors.ErrVerificationFailed) {
		t.Fatalf("verify error = %v, want ErrVerificationFailed", err)
	}
	if !strings.Contains(out, "hello_1.0.0-1_amd64.deb") || !strings.Contains(out, "missing") {
		t.Errorf("report should list every artifact:\n%s", out)
	}
}

func TestPackageCommand_UnsupportedCodename(t *testing.T) {
	dir := writePackage(t, "focal fossa")

	_, err := executeCommand(rootCmd, "package", dir)
	if !errors.Is(err, errors.ErrInvalidCodename) {
		t.Fatalf("package error = %v, want ErrInvalidCodename", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "work")); !os.IsNotExist(statErr) {
		t.Errorf("workdir must not be created for an unsupported codename")
	}
	if errors.GetExitCode(err) != errors.ExitConfig {
		t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitConfig)
	}
}

func TestPackageCommand_MissingConfig(t *testing.T) {
	_, err := executeCommand(rootCmd, "package", t.TempDir())
	if !errors.Is(err, errors.ErrConfigNotFound) {
		t.Errorf("package error = %v, want ErrConfigNotFound", err)
	}
}
