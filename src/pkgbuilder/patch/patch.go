// Package patch prepares an extracted source tree for sbuild: quilt
// bookkeeping, debian/control headers, local source overrides and the
// debian/rules execute bit. Every operation is idempotent.
package patch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/logs"
	"github.com/bitswalk/pkg-builder/src/common/paths"
	"github.com/google/renameio"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the patch package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

const (
	// QuiltFormat is written to debian/source/format when absent
	QuiltFormat = "3.0 (quilt)\n"
	// StandardsVersion is injected into debian/control
	StandardsVersion = "4.5.1"

	pcVersion = "2\n"
)

// Apply runs every patch operation in order on buildFilesDir. srcDir is an
// optional directory whose contents are overlaid on the tree.
func Apply(buildFilesDir, homepage, srcDir string) error {
	if err := EnsureQuiltFormat(buildFilesDir); err != nil {
		return err
	}
	if err := EnsurePCVersion(buildFilesDir); err != nil {
		return err
	}
	if err := InjectControlHeaders(buildFilesDir, homepage); err != nil {
		return err
	}
	if err := OverlaySource(buildFilesDir, srcDir); err != nil {
		return err
	}
	return MakeRulesExecutable(buildFilesDir)
}

// EnsureQuiltFormat writes debian/source/format unless it already exists
func EnsureQuiltFormat(buildFilesDir string) error {
	sourceDir := filepath.Join(buildFilesDir, "debian", "source")
	if err := os.MkdirAll(sourceDir, 0755); err != nil {
		return errors.ErrPatchFailed.WithCause(err).WithMessagef("failed to create %s", sourceDir)
	}

	format := filepath.Join(sourceDir, "format")
	if paths.Exists(format) {
		return nil
	}
	if err := renameio.WriteFile(format, []byte(QuiltFormat), 0644); err != nil {
		return errors.ErrPatchFailed.WithCause(err).WithMessagef("failed to write %s", format)
	}
	return nil
}

// EnsurePCVersion (re)creates debian/.pc/.version, which quilt needs even
// before any patch exists.
func EnsurePCVersion(buildFilesDir string) error {
	pcDir := filepath.Join(buildFilesDir, "debian", ".pc")
	if err := os.MkdirAll(pcDir, 0755); err != nil {
		return errors.ErrPatchFailed.WithCause(err).WithMessagef("failed to create %s", pcDir)
	}

	version := filepath.Join(pcDir, ".version")
	if err := renameio.WriteFile(version, []byte(pcVersion), 0644); err != nil {
		return errors.ErrPatchFailed.WithCause(err).WithMessagef("failed to write %s", version)
	}
	return nil
}

// InjectControlHeaders adds Standards-Version and Homepage right after the
// first Priority: line of debian/control. A file that already declares
// Standards-Version is left byte-identical. Without a Priority: line the
// headers are prepended.
func InjectControlHeaders(buildFilesDir, homepage string) error {
	control := filepath.Join(buildFilesDir, "debian", "control")
	data, err := os.ReadFile(control)
	if err != nil {
		return errors.ErrControlFile.WithCause(err).WithMessagef("failed to read %s", control)
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "Standards-Version") {
			return nil
		}
	}

	insertAt := 0
	found := false
	for i, line := range lines {
		if strings.HasPrefix(line, "Priority:") {
			insertAt = i + 1
			found = true
			break
		}
	}
	if !found {
		log.Warn("No Priority: line in debian/control, prepending headers", "path", control)
	}

	headers := []string{
		"Standards-Version: " + StandardsVersion,
		"Homepage: " + homepage,
	}
	patched := make([]string, 0, len(lines)+len(headers))
	patched = append(patched, lines[:insertAt]...)
	patched = append(patched, headers...)
	patched = append(patched, lines[insertAt:]...)

	info, err := os.Stat(control)
	if err != nil {
		return errors.ErrControlFile.WithCause(err).WithMessagef("failed to stat %s", control)
	}
	if err := renameio.WriteFile(control, []byte(strings.Join(patched, "\n")), info.Mode().Perm()); err != nil {
		return errors.ErrControlFile.WithCause(err).WithMessagef("failed to write %s", control)
	}
	return nil
}

// OverlaySource copies the contents of srcDir over buildFilesDir when srcDir exists
func OverlaySource(buildFilesDir, srcDir string) error {
	if srcDir == "" || !paths.IsDir(srcDir) {
		return nil
	}

	log.Info("Overlaying local sources", "src", srcDir, "dest", buildFilesDir)
	if err := paths.CopyDir(srcDir, buildFilesDir); err != nil {
		return errors.ErrPatchFailed.WithCause(err).WithMessagef("failed to copy %s into %s", srcDir, buildFilesDir)
	}
	return nil
}

// MakeRulesExecutable sets the execute bits of debian/rules
func MakeRulesExecutable(buildFilesDir string) error {
	rules := filepath.Join(buildFilesDir, "debian", "rules")
	info, err := os.Stat(rules)
	if err != nil {
		return errors.ErrRulesPermission.WithCause(err).WithMessagef("could not get permission of %s", rules)
	}
	if err := os.Chmod(rules, info.Mode().Perm()|0111); err != nil {
		return errors.ErrRulesPermission.WithCause(err).WithMessagef("could not set permission of %s", rules)
	}
	return nil
}
