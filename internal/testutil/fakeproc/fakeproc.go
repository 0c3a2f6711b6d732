// SPDX-License-Identifier: MPL-2.0

// Package fakeproc provides a scripted procexec.Runner for tests. It keeps a
// virtual PATH, records every invocation and answers commands from rules
// registered with On. A rule can add or remove binaries from the virtual
// PATH to model installers and uninstallers.
package fakeproc

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/stackup-dev/stackup/internal/procexec"
	"github.com/stackup-dev/stackup/pkg/types"
)

type (
	// Response is what a matched command returns.
	Response struct {
		ExitCode types.ExitCode
		Stdout   string
		Stderr   string
		Err      error
		// Installs are binaries placed on the virtual PATH when the command
		// succeeds.
		Installs []string
		// Removes are binaries taken off the virtual PATH.
		Removes []string
		// Effect runs when the command matches, before the result is
		// returned. Tests use it to write the files a compiler would.
		Effect func(cmd procexec.Command)
	}

	rule struct {
		prefix string
		resp   Response
	}

	// Runner is a fake procexec.Runner. The zero value is not usable; call New.
	Runner struct {
		mu    sync.Mutex
		bins  map[string]bool
		rules []rule
		calls []procexec.Command
	}
)

var _ procexec.Runner = (*Runner)(nil)

// New returns a Runner whose virtual PATH contains installed.
func New(installed ...string) *Runner {
	r := &Runner{bins: make(map[string]bool)}
	r.Install(installed...)
	return r
}

// Install adds binaries to the virtual PATH.
func (r *Runner) Install(bins ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range bins {
		r.bins[b] = true
	}
}

// Uninstall removes binaries from the virtual PATH.
func (r *Runner) Uninstall(bins ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range bins {
		delete(r.bins, b)
	}
}

// On registers resp for every command whose rendered command line starts
// with prefix. Later registrations take precedence.
func (r *Runner) On(prefix string, resp Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{prefix: prefix, resp: resp})
	return r
}

// Run implements procexec.Runner.
func (r *Runner) Run(_ context.Context, cmd procexec.Command) procexec.Result {
	if cmd.Stdin != nil {
		// Drain piped input so the writing side of a pipeline never blocks.
		_, _ = io.Copy(io.Discard, cmd.Stdin)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, cmd)
	line := cmd.String()

	for i := len(r.rules) - 1; i >= 0; i-- {
		if !strings.HasPrefix(line, r.rules[i].prefix) {
			continue
		}
		resp := r.rules[i].resp
		if resp.Err == nil && resp.ExitCode.IsSuccess() {
			for _, b := range resp.Installs {
				r.bins[b] = true
			}
		}
		for _, b := range resp.Removes {
			delete(r.bins, b)
		}
		if resp.Effect != nil {
			resp.Effect(cmd)
		}
		return procexec.Result{
			ExitCode: resp.ExitCode,
			Stdout:   resp.Stdout,
			Stderr:   resp.Stderr,
			Err:      resp.Err,
		}
	}

	if r.bins[cmd.Name] {
		return procexec.Result{}
	}
	return procexec.Result{ExitCode: 127, Err: &exec.Error{Name: cmd.Name, Err: exec.ErrNotFound}}
}

// LookPath implements procexec.Runner against the virtual PATH.
func (r *Runner) LookPath(file string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bins[file] {
		return "/fake/bin/" + file, nil
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

// Calls returns a copy of every recorded invocation.
func (r *Runner) Calls() []procexec.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]procexec.Command, len(r.calls))
	copy(out, r.calls)
	return out
}

// Lines returns the rendered command line of every recorded invocation.
func (r *Runner) Lines() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Count returns how many recorded command lines start with prefix.
func (r *Runner) Count(prefix string) int {
	n := 0
	for _, l := range r.Lines() {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

// Reset forgets recorded invocations but keeps rules and the virtual PATH.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
