// Package commandtest provides a recording command.Runner for tests.
package commandtest

import (
	"context"
	"strings"
	"sync"
)

// Call is one recorded invocation
type Call struct {
	Cmd        string
	Args       []string
	Dir        string
	Privileged bool
}

// String renders the call the way a shell would show it
func (c Call) String() string {
	parts := append([]string{c.Cmd}, c.Args...)
	s := strings.Join(parts, " ")
	if c.Privileged {
		s = "sudo -S " + s
	}
	return s
}

// Recorder records calls instead of spawning processes. Handlers keyed by
// command name can simulate side effects or failures.
type Recorder struct {
	mu       sync.Mutex
	Calls    []Call
	Handlers map[string]func(Call) error
	Outputs  map[string][]byte
}

// New creates an empty Recorder
func New() *Recorder {
	return &Recorder{
		Handlers: make(map[string]func(Call) error),
		Outputs:  make(map[string][]byte),
	}
}

// On registers a handler for a command name
func (r *Recorder) On(cmd string, fn func(Call) error) *Recorder {
	r.Handlers[cmd] = fn
	return r
}

// Execute implements command.Runner
func (r *Recorder) Execute(_ context.Context, cmd string, args []string, dir string) error {
	return r.record(Call{Cmd: cmd, Args: args, Dir: dir})
}

// ExecuteWithPrivilege implements command.Runner
func (r *Recorder) ExecuteWithPrivilege(_ context.Context, cmd string, args []string, dir string) error {
	return r.record(Call{Cmd: cmd, Args: args, Dir: dir, Privileged: true})
}

// Output implements command.Runner
func (r *Recorder) Output(_ context.Context, cmd string, args []string, dir string) ([]byte, error) {
	if err := r.record(Call{Cmd: cmd, Args: args, Dir: dir}); err != nil {
		return nil, err
	}
	return r.Outputs[cmd], nil
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	r.Calls = append(r.Calls, c)
	fn := r.Handlers[c.Cmd]
	r.mu.Unlock()

	if fn != nil {
		return fn(c)
	}
	return nil
}

// Commands returns the names of all recorded commands in order
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Cmd
	}
	return names
}

// Find returns the first call of cmd
func (r *Recorder) Find(cmd string) (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Calls {
		if c.Cmd == cmd {
			return c, true
		}
	}
	return Call{}, false
}
