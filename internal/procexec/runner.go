// SPDX-License-Identifier: MPL-2.0

package procexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/stackup-dev/stackup/pkg/types"
)

type (
	// Command describes one external process invocation.
	Command struct {
		Name string
		Args []string
		// Dir is the working directory; empty means the current one.
		Dir string
		// Env is the complete environment; nil inherits the parent's.
		Env []string
		// Stdin is optional input for the process.
		Stdin io.Reader
	}

	// Result is the outcome of a Command. A process that started and exited
	// non-zero has ExitCode set and Err nil; Err is reserved for failures to
	// start or wait on the process.
	Result struct {
		ExitCode types.ExitCode
		Stdout   string
		Stderr   string
		Err      error
	}

	// Runner starts external processes and resolves executables.
	Runner interface {
		Run(ctx context.Context, cmd Command) Result
		LookPath(file string) (string, error)
	}

	// NativeRunner runs commands on the host with os/exec. Output is captured
	// and, when Echo is set, also streamed to it as the process runs.
	NativeRunner struct {
		Echo io.Writer
	}
)

// NewNativeRunner returns a runner that executes on the host.
func NewNativeRunner() *NativeRunner {
	return &NativeRunner{}
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Success reports whether the process ran and exited zero.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode.IsSuccess()
}

// AsError converts a failed Result to an error carrying the exit code and
// the last line of stderr. Successful results return nil.
func (r Result) AsError() error {
	if r.Success() {
		return nil
	}
	if r.Err != nil {
		return r.Err
	}
	if line := lastLine(r.Stderr); line != "" {
		return &ExitError{Code: r.ExitCode, Detail: line}
	}
	return &ExitError{Code: r.ExitCode, Detail: lastLine(r.Stdout)}
}

// ErrNonZeroExit is the sentinel error wrapped by ExitError.
var ErrNonZeroExit = errors.New("process exited non-zero")

// ExitError reports a process that ran but exited non-zero.
type ExitError struct {
	Code   types.ExitCode
	Detail string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return fmt.Sprintf("exit status %d: %s", e.Code, e.Detail)
}

// Unwrap returns ErrNonZeroExit for errors.Is.
func (e *ExitError) Unwrap() error { return ErrNonZeroExit }

// Run executes cmd and waits for it. There is no timeout beyond ctx.
func (r *NativeRunner) Run(ctx context.Context, cmd Command) Result {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdin = cmd.Stdin

	var stdout, stderr bytes.Buffer
	if r.Echo != nil {
		c.Stdout = io.MultiWriter(&stdout, r.Echo)
		c.Stderr = io.MultiWriter(&stderr, r.Echo)
	} else {
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	err := c.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = types.ExitCode(exitErr.ExitCode())
			return result
		}
		result.ExitCode = 1
		result.Err = fmt.Errorf("failed to execute %s: %w", cmd.Name, err)
	}
	return result
}

// LookPath resolves file on the host PATH.
func (r *NativeRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Inherit returns the parent environment with extra KEY=VALUE pairs
// appended; later entries win on lookup.
func Inherit(extra ...string) []string {
	return append(os.Environ(), extra...)
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\r\n \t")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
