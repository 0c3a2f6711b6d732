// SPDX-License-Identifier: MPL-2.0

// Package journal writes the run log: every line goes to a per-run file in
// plain text and to the console with level colours. Lines have the form
//
//	<timestamp> [<LEVEL>] <message> key=value...
//
// with LEVEL one of INFO, STEP, SUCCESS, WARN, ERROR (DEBUG on the console
// in verbose mode). STEP and SUCCESS are custom charmbracelet/log levels
// placed between INFO and WARN.
package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/stackup-dev/stackup/internal/provision"
)

const (
	// StepLevel announces the start of a unit of work.
	StepLevel = log.InfoLevel + 1
	// SuccessLevel reports a completed unit of work.
	SuccessLevel = log.InfoLevel + 2

	// TimeFormat is the timestamp layout of every line.
	TimeFormat = "2006-01-02 15:04:05"

	fileTimeFormat = "20060102-150405"
)

var (
	colorStep    = lipgloss.Color("#7C3AED")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarn    = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Compile-time interface check
var _ provision.Reporter = (*Journal)(nil)

type (
	// Journal fans log lines out to the console and the run file.
	Journal struct {
		console *log.Logger
		file    *log.Logger
		closer  io.Closer
		path    string
	}

	// Options configures a Journal.
	Options struct {
		// Verbose shows DEBUG lines on the console. The file never has them.
		Verbose bool
		// Plain disables console colours.
		Plain bool
		// Now overrides the clock for timestamps and the file name.
		Now func() time.Time
	}
)

// FileName returns the run log file name for t.
func FileName(t time.Time) string {
	return "stackup-" + t.Format(fileTimeFormat) + ".log"
}

// Open creates dir if needed and a run log file in it named after the
// current time.
func Open(dir string, console io.Writer, opts Options) (*Journal, error) {
	now := opts.now()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	j := New(console, f, opts)
	j.closer = f
	j.path = path
	return j, nil
}

// New returns a Journal over explicit writers. A nil file writer disables
// the file copy.
func New(console, file io.Writer, opts Options) *Journal {
	j := &Journal{console: newLogger(console, opts, !opts.Plain)}
	if opts.Verbose {
		j.console.SetLevel(log.DebugLevel)
	}
	if file != nil {
		j.file = newLogger(file, opts, false)
	}
	return j
}

// Discard returns a Journal that writes nowhere.
func Discard() *Journal {
	return New(io.Discard, nil, Options{Plain: true})
}

// Path returns the run log file path, or "" when there is no file.
func (j *Journal) Path() string {
	return j.path
}

// Close closes the run log file.
func (j *Journal) Close() error {
	if j.closer == nil {
		return nil
	}
	return j.closer.Close()
}

// Console returns the console logger, for components that take a
// *log.Logger.
func (j *Journal) Console() *log.Logger {
	return j.console
}

// Debug logs console-only detail shown in verbose mode.
func (j *Journal) Debug(msg string, keyvals ...any) {
	j.console.Debug(msg, keyvals...)
}

// Info logs an INFO line.
func (j *Journal) Info(msg string, keyvals ...any) { j.log(log.InfoLevel, msg, keyvals) }

// Step logs a STEP line.
func (j *Journal) Step(msg string, keyvals ...any) { j.log(StepLevel, msg, keyvals) }

// Success logs a SUCCESS line.
func (j *Journal) Success(msg string, keyvals ...any) { j.log(SuccessLevel, msg, keyvals) }

// Warn logs a WARN line.
func (j *Journal) Warn(msg string, keyvals ...any) { j.log(log.WarnLevel, msg, keyvals) }

// Error logs an ERROR line.
func (j *Journal) Error(msg string, keyvals ...any) { j.log(log.ErrorLevel, msg, keyvals) }

// Outcome logs a provisioning outcome at the level matching its status.
func (j *Journal) Outcome(o provision.StepOutcome) {
	msg := o.Tool + ": " + o.Message
	switch o.Status {
	case provision.StatusSuccess:
		j.Success(msg)
	case provision.StatusWarning:
		j.Warn(msg)
	case provision.StatusError:
		j.Error(msg)
	default:
		j.Info(msg)
	}
}

// Summary logs the run verdict line.
func (j *Journal) Summary(s provision.Summary) {
	if s.Failed() {
		j.Error("Provisioning finished: " + s.String())
		return
	}
	j.Success("Provisioning finished: " + s.String())
}

func (j *Journal) log(level log.Level, msg string, keyvals []any) {
	j.console.Log(level, msg, keyvals...)
	if j.file != nil {
		j.file.Log(level, msg, keyvals...)
	}
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func newLogger(w io.Writer, opts Options, color bool) *log.Logger {
	logOpts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
		Level:           log.InfoLevel,
	}
	if opts.Now != nil {
		logOpts.TimeFunction = func(time.Time) time.Time { return opts.Now() }
	}
	l := log.NewWithOptions(w, logOpts)
	l.SetStyles(levelStyles(color))
	return l
}

// levelStyles renders levels as "[LEVEL]". Colourless styles still carry the
// label, which is all the file needs.
func levelStyles(color bool) *log.Styles {
	st := log.DefaultStyles()
	label := func(name string, c lipgloss.Color) lipgloss.Style {
		s := lipgloss.NewStyle().SetString("[" + name + "]")
		if color {
			s = s.Bold(true).Foreground(c)
		}
		return s
	}
	st.Levels = map[log.Level]lipgloss.Style{
		log.DebugLevel: label("DEBUG", colorMuted),
		log.InfoLevel:  label("INFO", colorInfo),
		StepLevel:      label("STEP", colorStep),
		SuccessLevel:   label("SUCCESS", colorSuccess),
		log.WarnLevel:  label("WARN", colorWarn),
		log.ErrorLevel: label("ERROR", colorError),
	}
	if !color {
		st.Timestamp = lipgloss.NewStyle()
		st.Key = lipgloss.NewStyle()
		st.Value = lipgloss.NewStyle()
		st.Separator = lipgloss.NewStyle()
	}
	return st
}
