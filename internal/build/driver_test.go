// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stackup-dev/stackup/internal/procexec"
	"github.com/stackup-dev/stackup/internal/testutil/fakeproc"
)

// writeArg returns an Effect that writes content to the command's i-th argument.
func writeArg(t *testing.T, i int, content string) func(procexec.Command) {
	t.Helper()
	return func(cmd procexec.Command) {
		if err := os.WriteFile(cmd.Args[i], []byte(content), 0o644); err != nil {
			t.Errorf("write %s: %v", cmd.Args[i], err)
		}
	}
}

func newProject(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("/* "+f+" */\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func compilers(t *testing.T) *fakeproc.Runner {
	t.Helper()
	fake := fakeproc.New("tsc", "tailwindcss")
	fake.On("tsc ", fakeproc.Response{Effect: writeArg(t, 2, "var app;\n")})
	fake.On("tailwindcss ", fakeproc.Response{Effect: writeArg(t, 3, "body{}\n")})
	return fake
}

func TestRunPipeline(t *testing.T) {
	t.Parallel()

	dir := newProject(t, "src/main.ts", "src/styles.css")
	fake := compilers(t)

	got, err := NewDriver(fake, Config{}).RunPipeline(context.Background(), dir)
	if err != nil {
		t.Fatalf("RunPipeline() error: %v", err)
	}

	want := ArtifactSet{
		Bundle:     filepath.Join(dir, "dist", "bundle.js"),
		Stylesheet: filepath.Join(dir, "dist", "styles.css"),
		HTML:       filepath.Join(dir, "dist", "index.html"),
	}
	if got != want {
		t.Errorf("RunPipeline() = %+v, want %+v", got, want)
	}

	html, err := os.ReadFile(want.HTML)
	if err != nil {
		t.Fatalf("read index.html: %v", err)
	}
	for _, ref := range []string{`href="styles.css"`, `src="bundle.js"`, "<title>stackup</title>"} {
		if !strings.Contains(string(html), ref) {
			t.Errorf("index.html missing %s:\n%s", ref, html)
		}
	}

	lines := fake.Lines()
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "tsc ") || !strings.HasPrefix(lines[1], "tailwindcss -i ") {
		t.Errorf("commands = %q, want tsc then tailwindcss", lines)
	}
	for _, c := range fake.Calls() {
		if c.Dir != dir {
			t.Errorf("%s ran in %q, want %q", c.Name, c.Dir, dir)
		}
	}
}

// A project without the stylesheet entry fails at the css stage and leaves
// no HTML entry point, even if one existed from an earlier build.
func TestRunPipeline_MissingStylesheetFailsCSSStage(t *testing.T) {
	t.Parallel()

	dir := newProject(t, "src/main.ts", "dist/index.html", "dist/keep.txt")
	fake := compilers(t)

	_, err := NewDriver(fake, Config{}).RunPipeline(context.Background(), dir)

	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("RunPipeline() error = %v, want *StageError", err)
	}
	if stageErr.Stage != StageCSS {
		t.Errorf("Stage = %q, want %q", stageErr.Stage, StageCSS)
	}
	if !errors.Is(err, ErrMissingInput) {
		t.Errorf("error = %v, want ErrMissingInput", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist", "index.html")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("index.html exists after failed build (stat err %v)", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist", "keep.txt")); err != nil {
		t.Errorf("unrelated output content was touched: %v", err)
	}
	if fake.Count("tailwindcss") != 0 {
		t.Error("css compiler ran without an input")
	}
}

func TestRunPipeline_StageFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		files     []string
		setup     func(*fakeproc.Runner)
		wantStage Stage
		wantErr   error
	}{
		{
			name:      "missing script entry",
			files:     []string{"src/styles.css"},
			wantStage: StageTypeScript,
			wantErr:   ErrMissingInput,
		},
		{
			name:  "tsc exits non-zero",
			files: []string{"src/main.ts", "src/styles.css"},
			setup: func(f *fakeproc.Runner) {
				f.On("tsc ", fakeproc.Response{ExitCode: 2, Stdout: "src/main.ts(1,7): error TS2322"})
			},
			wantStage: StageTypeScript,
			wantErr:   procexec.ErrNonZeroExit,
		},
		{
			name:  "tailwindcss not installed",
			files: []string{"src/main.ts", "src/styles.css"},
			setup: func(f *fakeproc.Runner) {
				f.Uninstall("tailwindcss")
				f.On("tailwindcss ", fakeproc.Response{ExitCode: 127, Err: os.ErrNotExist})
			},
			wantStage: StageCSS,
			wantErr:   os.ErrNotExist,
		},
		{
			name:  "compiler exits zero without output",
			files: []string{"src/main.ts", "src/styles.css"},
			setup: func(f *fakeproc.Runner) {
				f.On("tailwindcss ", fakeproc.Response{})
			},
			wantStage: StageCSS,
			wantErr:   ErrMissingOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := newProject(t, tt.files...)
			fake := compilers(t)
			if tt.setup != nil {
				tt.setup(fake)
			}

			_, err := NewDriver(fake, Config{}).RunPipeline(context.Background(), dir)
			var stageErr *StageError
			if !errors.As(err, &stageErr) {
				t.Fatalf("RunPipeline() error = %v, want *StageError", err)
			}
			if stageErr.Stage != tt.wantStage {
				t.Errorf("Stage = %q, want %q", stageErr.Stage, tt.wantStage)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if _, err := os.Stat(filepath.Join(dir, "dist", "index.html")); err == nil {
				t.Error("index.html written after a failed stage")
			}
		})
	}
}

func TestRunPipeline_CustomLayout(t *testing.T) {
	t.Parallel()

	dir := newProject(t, "assets/app.ts", "assets/app.css")
	fake := fakeproc.New("npx", "tailwindcss")
	fake.On("npx tsc ", fakeproc.Response{Effect: writeArg(t, 3, "var app;\n")})
	fake.On("tailwindcss ", fakeproc.Response{Effect: writeArg(t, 3, "body{}\n")})

	cfg := Config{
		ScriptEntry: "assets/app.ts",
		StyleEntry:  "assets/app.css",
		Bundle:      "public/js/app.js",
		Stylesheet:  "public/css/app.css",
		HTML:        "public/index.html",
		Title:       "Demo & Co",
		TSCompiler:  "npx tsc",
	}
	got, err := NewDriver(fake, cfg).RunPipeline(context.Background(), dir)
	if err != nil {
		t.Fatalf("RunPipeline() error: %v", err)
	}

	html, err := os.ReadFile(got.HTML)
	if err != nil {
		t.Fatal(err)
	}
	for _, ref := range []string{`href="css/app.css"`, `src="js/app.js"`, "Demo &amp; Co"} {
		if !strings.Contains(string(html), ref) {
			t.Errorf("index.html missing %s:\n%s", ref, html)
		}
	}
}

func TestConfigWithDefaults(t *testing.T) {
	t.Parallel()

	got := Config{Bundle: "out/app.js"}.WithDefaults()
	if got.Bundle != "out/app.js" {
		t.Errorf("Bundle = %q, override lost", got.Bundle)
	}
	if got.TSCompiler != "tsc" || got.CSSCompiler != "tailwindcss" {
		t.Errorf("compilers = %q, %q", got.TSCompiler, got.CSSCompiler)
	}
	if got.StyleEntry != filepath.Join("src", "styles.css") {
		t.Errorf("StyleEntry = %q", got.StyleEntry)
	}
}
