// SPDX-License-Identifier: MPL-2.0

package journal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stackup-dev/stackup/internal/provision"
)

var fixed = time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)

func fixedClock() time.Time { return fixed }

func TestJournal_LineFormat(t *testing.T) {
	t.Parallel()

	var console, file bytes.Buffer
	j := New(&console, &file, Options{Plain: true, Now: fixedClock})

	j.Info("Detected environment")
	j.Step("[1/2] node")
	j.Success("node: already installed")
	j.Warn("hhvm: install manually")
	j.Error("php: install via apt failed")

	want := []string{
		"2026-03-14 09:26:53 [INFO] Detected environment",
		"2026-03-14 09:26:53 [STEP] [1/2] node",
		"2026-03-14 09:26:53 [SUCCESS] node: already installed",
		"2026-03-14 09:26:53 [WARN] hhvm: install manually",
		"2026-03-14 09:26:53 [ERROR] php: install via apt failed",
	}
	got := strings.Split(strings.TrimRight(file.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("file has %d lines, want %d:\n%s", len(got), len(want), file.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if console.String() != file.String() {
		t.Errorf("plain console differs from file:\n%s\nvs\n%s", console.String(), file.String())
	}
}

func TestJournal_DebugIsConsoleOnly(t *testing.T) {
	t.Parallel()

	var console, file bytes.Buffer
	j := New(&console, &file, Options{Plain: true, Verbose: true, Now: fixedClock})
	j.Debug("probe", "cmd", "node --version")

	if !strings.Contains(console.String(), "[DEBUG] probe cmd=\"node --version\"") {
		t.Errorf("console = %q", console.String())
	}
	if file.Len() != 0 {
		t.Errorf("file got debug output: %q", file.String())
	}

	var quiet bytes.Buffer
	New(&quiet, nil, Options{Plain: true}).Debug("hidden")
	if quiet.Len() != 0 {
		t.Errorf("debug shown without verbose: %q", quiet.String())
	}
}

func TestJournal_Outcome(t *testing.T) {
	t.Parallel()

	var file bytes.Buffer
	j := New(&bytes.Buffer{}, &file, Options{Plain: true, Now: fixedClock})

	j.Outcome(provision.StepOutcome{Tool: "hhvm", Status: provision.StatusWarning, Message: "install manually"})
	j.Outcome(provision.StepOutcome{Tool: "laravel", Status: provision.StatusSkipped, Message: "skipped by configuration"})
	j.Summary(provision.Summary{Success: 3, Error: 1})

	out := file.String()
	for _, want := range []string{
		"[WARN] hhvm: install manually",
		"[INFO] laravel: skipped by configuration",
		"[ERROR] Provisioning finished: 3 succeeded, 0 warnings, 1 errors, 0 skipped",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "logs")
	j, err := Open(dir, &bytes.Buffer{}, Options{Now: fixedClock})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	j.Info("hello")
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	wantPath := filepath.Join(dir, "stackup-20260314-092653.log")
	if j.Path() != wantPath {
		t.Errorf("Path() = %q, want %q", j.Path(), wantPath)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "2026-03-14 09:26:53 [INFO] hello\n" {
		t.Errorf("file content = %q", data)
	}
}
