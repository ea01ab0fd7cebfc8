package command

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	pberrors "github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/logs"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := log
	SetLogger(logs.NewWithWriter(&buf, logs.OutputStderr, logs.Config{Level: "debug"}))
	t.Cleanup(func() { log = old })
	return &buf
}

func TestExecute_StreamsStdoutToLog(t *testing.T) {
	requireShell(t)
	buf := captureLog(t)

	r := &HostRunner{Stderr: &bytes.Buffer{}}
	if err := r.Execute(context.Background(), "sh", []string{"-c", "echo first; echo second"}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("expected both stdout lines in log, got %q", out)
	}
	if strings.Index(out, "first") > strings.Index(out, "second") {
		t.Error("stdout lines logged out of order")
	}
}

func TestExecute_UsesWorkingDirectory(t *testing.T) {
	requireShell(t)
	captureLog(t)

	dir := t.TempDir()
	r := &HostRunner{Stderr: &bytes.Buffer{}}
	if err := r.Execute(context.Background(), "sh", []string{"-c", "touch marker"}, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "marker")); err != nil {
		t.Errorf("command did not run in %s: %v", dir, err)
	}
}

func TestExecute_NonZeroExit(t *testing.T) {
	requireShell(t)
	captureLog(t)

	stderr := &bytes.Buffer{}
	r := &HostRunner{Stderr: stderr}
	err := r.Execute(context.Background(), "sh", []string{"-c", "echo boom >&2; exit 3"}, "")
	if err == nil {
		t.Fatal("expected error")
	}

	var cmdErr *CommandError
	if !pberrors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T", err)
	}
	if cmdErr.Command != "sh" {
		t.Errorf("Command = %q, want sh", cmdErr.Command)
	}
	if cmdErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", cmdErr.ExitCode)
	}
	if cmdErr.Stderr != "boom" {
		t.Errorf("Stderr = %q, want boom", cmdErr.Stderr)
	}
	if !pberrors.Is(err, pberrors.ErrCommandFailed) {
		t.Error("CommandError should match ErrCommandFailed")
	}
	if !strings.Contains(stderr.String(), "boom") {
		t.Error("stderr should still reach the parent stream")
	}
}

func TestExecute_KilledBySignal(t *testing.T) {
	requireShell(t)
	captureLog(t)

	r := &HostRunner{Stderr: &bytes.Buffer{}}
	err := r.Execute(context.Background(), "sh", []string{"-c", "kill -9 $$"}, "")

	var cmdErr *CommandError
	if !pberrors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if cmdErr.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", cmdErr.ExitCode)
	}
}

func TestExecute_SpawnFailure(t *testing.T) {
	captureLog(t)

	r := &HostRunner{Stderr: &bytes.Buffer{}}
	err := r.Execute(context.Background(), "pkg-builder-no-such-binary", nil, "")
	if !pberrors.Is(err, pberrors.ErrCommandSpawn) {
		t.Fatalf("expected ErrCommandSpawn, got %v", err)
	}
}

func TestOutput_ReturnsStdout(t *testing.T) {
	requireShell(t)
	captureLog(t)

	r := &HostRunner{}
	out, err := r.Output(context.Background(), "sh", []string{"-c", "printf 'lintian v2.116.3'"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "lintian v2.116.3" {
		t.Errorf("Output = %q", out)
	}
}

func TestLookPath(t *testing.T) {
	if err := LookPath("pkg-builder-no-such-binary"); !pberrors.Is(err, pberrors.ErrToolMissing) {
		t.Errorf("expected ErrToolMissing, got %v", err)
	}
}

func TestTailBuffer_KeepsLastBytes(t *testing.T) {
	b := newTailBuffer(4)
	_, _ = b.Write([]byte("abc"))
	_, _ = b.Write([]byte("defg"))
	if got := b.String(); got != "defg" {
		t.Errorf("tail = %q, want defg", got)
	}
}
