// SPDX-License-Identifier: MPL-2.0

package procexec_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stackup-dev/stackup/internal/procexec"
	"github.com/stackup-dev/stackup/internal/testutil/fakeproc"
)

func TestShellRoutesExternalCommands(t *testing.T) {
	t.Parallel()

	fake := fakeproc.New("npm")
	fake.On("npm install -g typescript", fakeproc.Response{Stdout: "added 1 package\n", Installs: []string{"tsc"}})

	sh := &procexec.Shell{Runner: fake, Dir: t.TempDir(), Env: []string{"PATH=/fake/bin"}}
	res := sh.Run(context.Background(), "install-typescript", "export NPM_CONFIG_FUND=false\nnpm install -g typescript\n")
	if !res.Success() {
		t.Fatalf("Run() = %+v, want success", res)
	}
	if !strings.Contains(res.Stdout, "added 1 package") {
		t.Errorf("stdout = %q, want installer output", res.Stdout)
	}
	if _, err := fake.LookPath("tsc"); err != nil {
		t.Errorf("tsc should be on the fake PATH after install: %v", err)
	}

	calls := fake.Calls()
	if len(calls) != 1 {
		t.Fatalf("recorded %d calls, want 1: %v", len(calls), fake.Lines())
	}
	found := false
	for _, kv := range calls[0].Env {
		if kv == "NPM_CONFIG_FUND=false" {
			found = true
		}
	}
	if !found {
		t.Errorf("exported variable not passed to command env: %v", calls[0].Env)
	}
}

func TestShellPropagatesExitStatus(t *testing.T) {
	t.Parallel()

	fake := fakeproc.New("curl", "bash")
	fake.On("bash", fakeproc.Response{ExitCode: 3, Stderr: "installer: unsupported platform\n"})

	sh := &procexec.Shell{Runner: fake, Dir: t.TempDir()}
	res := sh.Run(context.Background(), "bootstrap", "curl -fsSL https://example.invalid/install.sh | bash")
	if res.Success() {
		t.Fatal("expected failure")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if err := res.AsError(); err == nil || !strings.Contains(err.Error(), "unsupported platform") {
		t.Errorf("AsError() = %v, want stderr detail", err)
	}
	if got := fake.Count("curl -fsSL"); got != 1 {
		t.Errorf("curl invoked %d times, want 1", got)
	}
}

func TestShellMissingCommand(t *testing.T) {
	t.Parallel()

	sh := &procexec.Shell{Runner: fakeproc.New(), Dir: t.TempDir()}
	res := sh.Run(context.Background(), "missing", "composer global require laravel/installer")
	if res.ExitCode != 127 {
		t.Errorf("ExitCode = %d, want 127", res.ExitCode)
	}
}

func TestShellAndOrShortCircuit(t *testing.T) {
	t.Parallel()

	fake := fakeproc.New("false-cmd", "echo-cmd")
	fake.On("false-cmd", fakeproc.Response{ExitCode: 1})

	sh := &procexec.Shell{Runner: fake, Dir: t.TempDir()}
	res := sh.Run(context.Background(), "chain", "false-cmd && echo-cmd never\necho-cmd after")
	if !res.Success() {
		t.Fatalf("Run() = %+v, want success from last command", res)
	}
	if fake.Count("echo-cmd never") != 0 {
		t.Error("&& did not short-circuit")
	}
	if fake.Count("echo-cmd after") != 1 {
		t.Error("second line did not run")
	}
}

func TestParseScript(t *testing.T) {
	t.Parallel()

	if _, err := procexec.ParseScript("ok", "brew install node && node --version"); err != nil {
		t.Errorf("ParseScript(valid) error: %v", err)
	}
	if _, err := procexec.ParseScript("bad", "if then fi ("); err == nil {
		t.Error("ParseScript(invalid) = nil error")
	}
}

func TestShellExitOnError(t *testing.T) {
	t.Parallel()

	fake := fakeproc.New("step")
	fake.On("step one", fakeproc.Response{ExitCode: 5})

	sh := &procexec.Shell{Runner: fake, Dir: t.TempDir(), ExitOnError: true}
	res := sh.Run(context.Background(), "errexit", "step one\nstep two\n")
	if res.ExitCode != 5 {
		t.Errorf("ExitCode = %d, want 5", res.ExitCode)
	}
	if fake.Count("step two") != 0 {
		t.Error("script continued after failing command with ExitOnError set")
	}
}
