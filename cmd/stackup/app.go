// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/stackup-dev/stackup/internal/config"
	"github.com/stackup-dev/stackup/internal/hostenv"
	"github.com/stackup-dev/stackup/internal/issue"
	"github.com/stackup-dev/stackup/internal/journal"
	"github.com/stackup-dev/stackup/internal/procexec"
	"github.com/stackup-dev/stackup/pkg/manifest"
	"github.com/stackup-dev/stackup/pkg/types"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		LoadWithPath(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and reaches the host only through it.
	App struct {
		Config ConfigProvider
		Runner procexec.Runner
		Probe  hostenv.Probe
		Now    func() time.Time
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Runner procexec.Runner
		Probe  *hostenv.Probe
		Now    func() time.Time
		Stdout io.Writer
		Stderr io.Writer
	}

	// globalOptions are the persistent flags shared by every command.
	globalOptions struct {
		configPath   string
		dir          string
		manifestPath string
		verbose      bool
	}

	// session is the per-invocation state resolved from flags, config and
	// manifest.
	session struct {
		app     *App
		dir     string
		cfg     *config.Config
		cfgPath string
		verbose bool

		manifestPath     string
		explicitManifest bool
		manifest         *manifest.Manifest
		fromFile         bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = procexec.NewNativeRunner()
	}
	if deps.Probe == nil {
		p := hostenv.SystemProbe()
		deps.Probe = &p
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &App{
		Config: deps.Config,
		Runner: deps.Runner,
		Probe:  *deps.Probe,
		Now:    deps.Now,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// DetectEnvironment takes the host snapshot for this run.
func (a *App) DetectEnvironment() hostenv.Environment {
	return hostenv.Detect(a.Probe)
}

// openSession resolves the project directory, the configuration and the
// manifest path. Failures are config errors and carry ExitConfigError.
func (a *App) openSession(ctx context.Context, opts *globalOptions) (*session, error) {
	dir := opts.dir
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, configExit(fmt.Errorf("resolve project directory: %w", err))
	}
	if info, err := os.Stat(absDir); err != nil || !info.IsDir() {
		return nil, configExit(issue.NewErrorContext().
			WithOperation("open project directory").
			WithResource(absDir).
			WithSuggestion("Pass an existing directory with --dir").
			Wrap(errors.New("not a directory")).
			BuildError())
	}

	cfg, cfgPath, err := a.Config.LoadWithPath(ctx, config.LoadOptions{
		ConfigFilePath: opts.configPath,
		WorkDir:        absDir,
	})
	if err != nil {
		return nil, configExit(err)
	}

	s := &session{
		app:     a,
		dir:     absDir,
		cfg:     cfg,
		cfgPath: cfgPath,
		verbose: opts.verbose || cfg.UI.Verbose,
	}

	s.manifestPath, s.explicitManifest = opts.manifestPath, opts.manifestPath != ""
	if !s.explicitManifest {
		s.manifestPath, s.explicitManifest = cfg.Manifest, cfg.Manifest != ""
	}
	if s.manifestPath == "" {
		s.manifestPath = manifest.Path(absDir)
	}
	s.manifestPath = s.resolve(s.manifestPath)

	return s, nil
}

// loadManifest reads the manifest. Without an explicit path a missing
// stackup.cue selects the built-in manifest.
func (s *session) loadManifest() error {
	var err error
	if s.explicitManifest {
		s.manifest, err = manifest.Load(s.manifestPath)
		s.fromFile = err == nil
	} else {
		s.manifest, s.fromFile, err = manifest.LoadOrDefault(s.manifestPath)
	}
	if err != nil {
		return configExit(manifestError(s.manifestPath, err))
	}
	return nil
}

// resolve makes p absolute against the project directory.
func (s *session) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.dir, p)
}

// logDir returns the absolute log directory.
func (s *session) logDir() string {
	return s.resolve(s.cfg.LogDir)
}

// plainOutput reports whether console colours are disabled.
func (s *session) plainOutput() bool {
	return s.cfg.UI.ColorScheme == config.ColorSchemeNone
}

// openJournal creates the run log in the log directory.
func (s *session) openJournal() (*journal.Journal, error) {
	j, err := journal.Open(s.logDir(), s.app.stdout, journal.Options{
		Verbose: s.verbose,
		Plain:   s.plainOutput(),
		Now:     s.app.Now,
	})
	if err != nil {
		return nil, configExit(issue.NewErrorContext().
			WithOperation("open run log").
			WithResource(s.logDir()).
			WithSuggestion("Point log_dir in config.cue at a writable directory").
			WithIssue(issue.PermissionDeniedId).
			Wrap(err).
			BuildError())
	}
	return j, nil
}

// manifestSource describes where the manifest came from for log lines.
func (s *session) manifestSource() string {
	if s.fromFile {
		return s.manifestPath
	}
	return "built-in defaults"
}

func manifestError(path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("load manifest").
		WithResource(path).
		Wrap(err)

	var verrs manifest.ValidationErrors
	switch {
	case errors.Is(err, manifest.ErrNotFound):
		ctx.WithIssue(issue.ManifestNotFoundId).
			WithSuggestion("Run 'stackup init' to write the built-in manifest")
	case errors.As(err, &verrs):
		ctx.WithIssue(issue.ManifestInvalidId)
	default:
		ctx.WithIssue(issue.ManifestParseErrorId).
			WithSuggestion("Check the file against the #Manifest schema")
	}
	return ctx.BuildError()
}

func configExit(err error) error {
	return &ExitError{Code: types.ExitConfigError, Err: err}
}
