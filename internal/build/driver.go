// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/stackup-dev/stackup/internal/procexec"
)

const (
	// StagePrepare creates output directories and removes the stale entry.
	StagePrepare Stage = "prepare"
	// StageTypeScript compiles the script entry into the bundle.
	StageTypeScript Stage = "typescript"
	// StageCSS compiles the style entry into the stylesheet.
	StageCSS Stage = "css"
	// StageHTML writes the HTML entry point.
	StageHTML Stage = "html"
)

var (
	//go:embed index.html.tmpl
	indexTemplateText string

	indexTemplate = template.Must(template.New("index").Parse(indexTemplateText))

	// ErrMissingInput is returned when a stage's input file does not exist.
	ErrMissingInput = errors.New("input file not found")
	// ErrMissingOutput is returned when a compiler exits zero without
	// writing its output.
	ErrMissingOutput = errors.New("compiler did not produce output")
)

type (
	// Stage names one pipeline step.
	Stage string

	// StageError reports the stage that failed and why.
	StageError struct {
		Stage Stage
		Err   error
	}

	// ArtifactSet holds the absolute paths of the three outputs of a
	// successful build.
	ArtifactSet struct {
		Bundle     string `toml:"bundle"`
		Stylesheet string `toml:"stylesheet"`
		HTML       string `toml:"html"`
	}

	// Reporter receives stage progress.
	Reporter interface {
		Step(msg string, keyvals ...any)
		Info(msg string, keyvals ...any)
	}

	// Driver runs the pipeline. It holds no state between runs; every run is
	// a full rebuild.
	Driver struct {
		runner   procexec.Runner
		config   Config
		reporter Reporter
	}

	// DriverOption configures a Driver.
	DriverOption func(*Driver)

	paths struct {
		scriptEntry, bundle, styleEntry, stylesheet, html string
	}
)

// Stages lists the pipeline stages in execution order.
func Stages() []Stage {
	return []Stage{StagePrepare, StageTypeScript, StageCSS, StageHTML}
}

// String returns the stage name.
func (s Stage) String() string { return string(s) }

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("build stage %s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error { return e.Err }

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) DriverOption {
	return func(d *Driver) {
		d.reporter = r
	}
}

// NewDriver returns a Driver; empty config fields take their defaults.
func NewDriver(runner procexec.Runner, cfg Config, opts ...DriverOption) *Driver {
	d := &Driver{runner: runner, config: cfg.WithDefaults(), reporter: nopReporter{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Config returns the effective configuration.
func (d *Driver) Config() Config {
	return d.config
}

// RunPipeline builds workDir. On failure the returned error is a *StageError
// and no HTML entry point exists.
func (d *Driver) RunPipeline(ctx context.Context, workDir string) (ArtifactSet, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return ArtifactSet{}, &StageError{Stage: StagePrepare, Err: err}
	}
	p := d.resolve(absDir)

	d.reporter.Step("Build: prepare", "dir", absDir)
	if err := prepare(p); err != nil {
		return ArtifactSet{}, &StageError{Stage: StagePrepare, Err: err}
	}

	d.reporter.Step("Build: typescript", "entry", p.scriptEntry)
	if err := d.compile(ctx, absDir, d.config.TSCompiler, p.scriptEntry, p.bundle,
		[]string{p.scriptEntry, "--outFile", p.bundle}); err != nil {
		return ArtifactSet{}, &StageError{Stage: StageTypeScript, Err: err}
	}

	d.reporter.Step("Build: css", "entry", p.styleEntry)
	if err := d.compile(ctx, absDir, d.config.CSSCompiler, p.styleEntry, p.stylesheet,
		[]string{"-i", p.styleEntry, "-o", p.stylesheet}); err != nil {
		return ArtifactSet{}, &StageError{Stage: StageCSS, Err: err}
	}

	d.reporter.Step("Build: html", "out", p.html)
	if err := writeHTML(p, d.config.Title); err != nil {
		return ArtifactSet{}, &StageError{Stage: StageHTML, Err: err}
	}

	return ArtifactSet{Bundle: p.bundle, Stylesheet: p.stylesheet, HTML: p.html}, nil
}

func (d *Driver) resolve(dir string) paths {
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(dir, p)
	}
	return paths{
		scriptEntry: abs(d.config.ScriptEntry),
		bundle:      abs(d.config.Bundle),
		styleEntry:  abs(d.config.StyleEntry),
		stylesheet:  abs(d.config.Stylesheet),
		html:        abs(d.config.HTML),
	}
}

// prepare creates output directories and removes a previous HTML entry.
// Nothing else in the output directories is touched.
func prepare(p paths) error {
	for _, out := range []string{p.bundle, p.stylesheet, p.html} {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.Remove(p.html); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale %s: %w", filepath.Base(p.html), err)
	}
	return nil
}

func (d *Driver) compile(ctx context.Context, dir, compiler, input, output string, args []string) error {
	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingInput, input)
		}
		return err
	}

	fields := strings.Fields(compiler)
	if len(fields) == 0 {
		return errors.New("no compiler configured")
	}
	cmd := procexec.Command{
		Name: fields[0],
		Args: append(fields[1:], args...),
		Dir:  dir,
	}
	d.reporter.Info("running", "cmd", cmd.String())

	if err := d.runner.Run(ctx, cmd).AsError(); err != nil {
		return fmt.Errorf("%s: %w", fields[0], err)
	}
	if _, err := os.Stat(output); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingOutput, output)
	}
	return nil
}

// writeHTML renders the entry point to a temporary file and renames it into
// place so a partially written entry is never visible.
func writeHTML(p paths, title string) error {
	htmlDir := filepath.Dir(p.html)
	bundleRef, err := relRef(htmlDir, p.bundle)
	if err != nil {
		return err
	}
	styleRef, err := relRef(htmlDir, p.stylesheet)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(htmlDir, ".index-*.html")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	data := struct{ Title, Bundle, Stylesheet string }{title, bundleRef, styleRef}
	if err := indexTemplate.Execute(tmp, data); err != nil {
		tmp.Close() //nolint:errcheck // already failing
		return fmt.Errorf("render template: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), p.html); err != nil {
		return fmt.Errorf("write %s: %w", p.html, err)
	}
	return nil
}

// relRef returns target relative to dir with forward slashes, as used in
// HTML attributes.
func relRef(dir, target string) (string, error) {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return "", fmt.Errorf("reference %s from %s: %w", target, dir, err)
	}
	return filepath.ToSlash(rel), nil
}

type nopReporter struct{}

func (nopReporter) Step(string, ...any) {}
func (nopReporter) Info(string, ...any) {}
