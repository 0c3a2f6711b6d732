// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"

	"github.com/stackup-dev/stackup/internal/procexec"
	"github.com/stackup-dev/stackup/pkg/manifest"
	"github.com/stackup-dev/stackup/pkg/toolversion"
)

type (
	// Prober runs detection probes. It keeps no state between calls: every
	// probe reads the host afresh.
	Prober struct {
		runner procexec.Runner
	}

	// ProbeResult is what a probe observed.
	ProbeResult struct {
		// Found is true when the probe command resolves on PATH.
		Found bool
		Path  string
		// Version is empty when it could not be extracted.
		Version string
		// MeetsMinimum is true when no minimum is declared or Version >= it.
		MeetsMinimum bool
		// Problem explains an unsatisfied probe in one line.
		Problem string
	}
)

// NewProber returns a Prober using runner.
func NewProber(runner procexec.Runner) *Prober {
	return &Prober{runner: runner}
}

// Satisfied reports whether the tool needs no further action.
func (r ProbeResult) Satisfied() bool {
	return r.Found && r.MeetsMinimum
}

// Probe checks spec against the host.
func (p *Prober) Probe(ctx context.Context, spec manifest.ToolSpec) ProbeResult {
	path, err := p.runner.LookPath(spec.Probe.Command)
	if err != nil {
		return ProbeResult{Problem: fmt.Sprintf("%s not found on PATH", spec.Probe.Command)}
	}

	res := ProbeResult{Found: true, Path: path}
	out := p.runner.Run(ctx, procexec.Command{Name: spec.Probe.Command, Args: spec.Probe.ProbeArgs()})
	if out.Err == nil {
		if re, err := toolversion.Compile(spec.Probe.VersionPattern); err == nil {
			res.Version, _ = toolversion.Extract(re, out.Stdout+"\n"+out.Stderr) //nolint:errcheck // missing version handled below
		}
	}

	if spec.MinVersion == "" {
		res.MeetsMinimum = true
		return res
	}
	if res.Version == "" {
		res.Problem = fmt.Sprintf("could not determine %s version (need >= %s)", spec.Name, spec.MinVersion)
		return res
	}

	ok, err := toolversion.AtLeast(res.Version, spec.MinVersion)
	switch {
	case err != nil:
		res.Problem = fmt.Sprintf("unrecognized %s version %q: %v", spec.Name, res.Version, err)
	case !ok:
		res.Problem = fmt.Sprintf("%s %s is older than required %s", spec.Name, res.Version, spec.MinVersion)
	default:
		res.MeetsMinimum = true
	}
	return res
}

// Describe renders a satisfied probe for log lines.
func (r ProbeResult) Describe(name string) string {
	if r.Version == "" {
		return fmt.Sprintf("%s (%s)", name, r.Path)
	}
	return fmt.Sprintf("%s %s (%s)", name, r.Version, r.Path)
}
