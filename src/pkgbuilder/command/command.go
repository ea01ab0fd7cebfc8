// Package command runs the external tools pkg-builder orchestrates.
package command

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	pberrors "github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/common/logs"
	"golang.org/x/term"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the command package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// stderrTailSize bounds how much stderr a CommandError keeps
const stderrTailSize = 8 * 1024

// Runner spawns external commands. Every call blocks until the child exits.
type Runner interface {
	// Execute runs cmd with args, in dir when non-empty
	Execute(ctx context.Context, cmd string, args []string, dir string) error

	// ExecuteWithPrivilege runs cmd through sudo
	ExecuteWithPrivilege(ctx context.Context, cmd string, args []string, dir string) error

	// Output runs cmd and returns its standard output instead of logging it
	Output(ctx context.Context, cmd string, args []string, dir string) ([]byte, error)
}

// CommandError reports a child process that exited unsuccessfully
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int // -1 when the process was killed by a signal
	Stderr   string
}

// Error implements the error interface
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap lets errors.Is match ErrCommandFailed
func (e *CommandError) Unwrap() error {
	return pberrors.ErrCommandFailed
}

// HostRunner executes commands directly on the host.
type HostRunner struct {
	// Stderr receives the child's standard error (default os.Stderr)
	Stderr io.Writer
	// Stdin is handed to privileged commands so sudo -S can read a password (default os.Stdin)
	Stdin *os.File
}

// NewHostRunner creates a runner bound to the process's stdin/stderr
func NewHostRunner() *HostRunner {
	return &HostRunner{
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
	}
}

// Execute runs a command, streaming stdout lines to the log as they arrive
func (r *HostRunner) Execute(ctx context.Context, name string, args []string, dir string) error {
	return r.run(ctx, name, args, dir, nil)
}

// ExecuteWithPrivilege runs a command prefixed with "sudo -S".
// Without a terminal on stdin, sudo must already hold cached or passwordless
// credentials; otherwise ErrSudoUnavailable is returned instead of blocking.
func (r *HostRunner) ExecuteWithPrivilege(ctx context.Context, name string, args []string, dir string) error {
	if !r.interactive() {
		probe := exec.CommandContext(ctx, "sudo", "-n", "true")
		if err := probe.Run(); err != nil {
			return pberrors.ErrSudoUnavailable.WithCause(err).WithMessagef(
				"cannot run %s with sudo: no terminal attached and no cached credentials", name)
		}
	}

	sudoArgs := append([]string{"-S", name}, args...)
	return r.run(ctx, "sudo", sudoArgs, dir, r.stdin())
}

// Output runs a command and returns what it wrote to stdout
func (r *HostRunner) Output(ctx context.Context, name string, args []string, dir string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout bytes.Buffer
	stderr := newTailBuffer(stderrTailSize)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	log.Debug("Running command", "cmd", name, "args", strings.Join(args, " "), "dir", dir)

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), commandError(name, args, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func (r *HostRunner) run(ctx context.Context, name string, args []string, dir string, stdin io.Reader) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if stdin != nil {
		cmd.Stdin = stdin
	}

	stderr := newTailBuffer(stderrTailSize)
	cmd.Stderr = io.MultiWriter(r.stderr(), stderr)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return pberrors.ErrCommandSpawn.WithCause(err).WithMessagef("failed to start %s", name)
	}

	log.Info("Running command", "cmd", name, "args", strings.Join(args, " "), "dir", dir)

	if err := cmd.Start(); err != nil {
		return pberrors.ErrCommandSpawn.WithCause(err).WithMessagef("failed to start %s", name)
	}

	// Wait closes the pipe, so every line must be read before calling it.
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		log.Info(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Warn("Stopped forwarding command output", "cmd", name, "error", err)
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		return commandError(name, args, err, stderr.String())
	}
	return nil
}

func (r *HostRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

func (r *HostRunner) stdin() *os.File {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *HostRunner) interactive() bool {
	return term.IsTerminal(int(r.stdin().Fd()))
}

// commandError converts an exec error into a typed pkg-builder error
func commandError(name string, args []string, err error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ExitCode is -1 when the process was terminated by a signal
		return &CommandError{
			Command:  name,
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderr),
		}
	}
	return pberrors.ErrCommandSpawn.WithCause(err).WithMessagef("failed to run %s", name)
}

// LookPath reports whether a binary is resolvable on PATH
func LookPath(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return pberrors.ErrToolMissing.WithCause(err).WithMessagef("%s is not installed", name)
	}
	return nil
}

// tailBuffer keeps the last max bytes written to it
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if len(b.buf) > b.max {
		b.buf = b.buf[len(b.buf)-b.max:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
