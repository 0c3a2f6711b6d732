// SPDX-License-Identifier: MPL-2.0

package procexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/stackup-dev/stackup/pkg/types"
)

// Shell interprets POSIX shell scripts with mvdan.cc/sh and dispatches every
// external command to Runner.
type Shell struct {
	Runner Runner
	// Dir is the script's initial working directory.
	Dir string
	// Env is the script environment; nil inherits the parent's.
	Env []string
	// ExitOnError runs the script as if it started with "set -e".
	ExitOnError bool
}

// ParseScript checks script syntax without running it.
func ParseScript(name, script string) (*syntax.File, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return nil, fmt.Errorf("script syntax error: %w", err)
	}
	return prog, nil
}

// Run executes script and returns the combined outcome. A non-zero exit of
// the script is reported through Result.ExitCode, not Result.Err.
func (s *Shell) Run(ctx context.Context, name, script string) Result {
	prog, err := ParseScript(name, script)
	if err != nil {
		return Result{ExitCode: 2, Err: err}
	}

	env := s.Env
	if env == nil {
		env = os.Environ()
	}

	var stdout, stderr bytes.Buffer
	opts := []interp.RunnerOption{
		interp.Dir(s.Dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(strings.NewReader(""), &stdout, &stderr),
		interp.ExecHandlers(s.execHandler),
	}
	if s.ExitOnError {
		opts = append(opts, interp.Params("-e"))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return Result{ExitCode: 1, Err: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	result := Result{}
	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			result.ExitCode = types.ExitCode(status)
		} else {
			result.ExitCode = 1
			result.Err = fmt.Errorf("script execution failed: %w", err)
		}
	}
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	return result
}

// execHandler routes external commands to the Runner. The interpreter's
// current directory, exported variables and stdio are carried over.
func (s *Shell) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			return next(ctx, args)
		}
		hc := interp.HandlerCtx(ctx)

		var env []string
		hc.Env.Each(func(name string, vr expand.Variable) bool {
			if vr.Exported && vr.Kind == expand.String {
				env = append(env, name+"="+vr.Str)
			}
			return true
		})

		res := s.Runner.Run(ctx, Command{
			Name:  args[0],
			Args:  args[1:],
			Dir:   hc.Dir,
			Env:   env,
			Stdin: hc.Stdin,
		})
		if hc.Stdout != nil && res.Stdout != "" {
			_, _ = io.WriteString(hc.Stdout, res.Stdout)
		}
		if hc.Stderr != nil && res.Stderr != "" {
			_, _ = io.WriteString(hc.Stderr, res.Stderr)
		}
		if res.Err != nil {
			fmt.Fprintf(hc.Stderr, "%s: %v\n", args[0], res.Err)
			return interp.ExitStatus(127)
		}
		if !res.ExitCode.IsSuccess() {
			return interp.ExitStatus(uint8(res.ExitCode))
		}
		return nil
	}
}
