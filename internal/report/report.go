// SPDX-License-Identifier: MPL-2.0

// Package report persists the outcome of the latest run as TOML so that
// "stackup report" can show it after the console has scrolled away.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/slices"

	"github.com/stackup-dev/stackup/internal/build"
	"github.com/stackup-dev/stackup/internal/hostenv"
	"github.com/stackup-dev/stackup/internal/provision"
)

// FileName is the report file written into the log directory.
const FileName = "last-run.toml"

// ErrNoReport is returned by Load when no run has been recorded yet.
var ErrNoReport = errors.New("no run report found")

type (
	// Report is one run: environment, outcomes, verdict and build result.
	Report struct {
		RunID      string                  `toml:"run_id"`
		StartedAt  time.Time               `toml:"started_at"`
		FinishedAt time.Time               `toml:"finished_at"`
		Manifest   string                  `toml:"manifest"`
		LogFile    string                  `toml:"log_file"`
		Env        hostenv.Environment     `toml:"environment"`
		Summary    provision.Summary       `toml:"summary"`
		Outcomes   []provision.StepOutcome `toml:"outcome"`
		Build      *BuildResult            `toml:"build,omitempty"`
	}

	// BuildResult records the build step when one ran.
	BuildResult struct {
		OK        bool               `toml:"ok"`
		Stage     string             `toml:"failed_stage,omitempty"`
		Error     string             `toml:"error,omitempty"`
		Artifacts *build.ArtifactSet `toml:"artifacts,omitempty"`
	}
)

// New starts a report with a fresh run id.
func New(env hostenv.Environment, started time.Time) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: started,
		Env:       env,
	}
}

// Record stores the run log and its fold.
func (r *Report) Record(log *provision.Log) {
	r.Outcomes = log.Outcomes()
	r.Summary = log.Summary()
}

// RecordBuild stores the build result; err is nil on success.
func (r *Report) RecordBuild(artifacts build.ArtifactSet, err error) {
	if err == nil {
		r.Build = &BuildResult{OK: true, Artifacts: &artifacts}
		return
	}
	res := &BuildResult{Error: err.Error()}
	var stageErr *build.StageError
	if errors.As(err, &stageErr) {
		res.Stage = stageErr.Stage.String()
	}
	r.Build = res
}

// Failed reports whether the run should exit non-zero.
func (r *Report) Failed() bool {
	return r.Summary.Failed() || (r.Build != nil && !r.Build.OK)
}

// Problems returns the error and warning outcomes, errors first.
func (r *Report) Problems() []provision.StepOutcome {
	out := slices.Clone(r.Outcomes)
	out = slices.DeleteFunc(out, func(o provision.StepOutcome) bool {
		return o.Status != provision.StatusError && o.Status != provision.StatusWarning
	})
	slices.SortStableFunc(out, func(a, b provision.StepOutcome) int {
		return rank(a.Status) - rank(b.Status)
	})
	return out
}

func rank(s provision.Status) int {
	if s == provision.StatusError {
		return 0
	}
	return 1
}

// Marshal encodes the report as TOML.
func (r *Report) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the report to dir/FileName, replacing the previous one.
func (r *Report) Save(dir string) (string, error) {
	data, err := r.Marshal()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(dir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Load reads the report in dir.
func Load(dir string) (*Report, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoReport, dir)
		}
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return &r, nil
}
