// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"

	"github.com/stackup-dev/stackup/internal/hostenv"
	"github.com/stackup-dev/stackup/internal/pkgmgr"
	"github.com/stackup-dev/stackup/internal/procexec"
	"github.com/stackup-dev/stackup/pkg/manifest"
)

// Compile-time interface check
var _ Provisioner = (*Orchestrator)(nil)

type (
	// Provisioner ensures tools are present on the host.
	Provisioner interface {
		// EnsureTool brings one tool to a satisfied state, if possible.
		EnsureTool(ctx context.Context, spec manifest.ToolSpec, env hostenv.Environment) StepOutcome
		// RunAll ensures every tool in order and returns the run log.
		RunAll(ctx context.Context, specs []manifest.ToolSpec, env hostenv.Environment) *Log
		// Validate re-probes every required tool.
		Validate(ctx context.Context, specs []manifest.ToolSpec, env hostenv.Environment) (bool, []StepOutcome)
	}

	// Orchestrator is the Provisioner used by the CLI. One Orchestrator
	// serves one run: the package index refresh it tracks is per run.
	Orchestrator struct {
		config *Config
		prober *Prober
		table  *pkgmgr.Table
		shell  *procexec.Shell
	}

	decisionKind int

	// decision is what EnsureTool would do for a tool, computed without side
	// effects. Plan and EnsureTool share it.
	decision struct {
		kind      decisionKind
		probe     ProbeResult
		action    manifest.InstallAction
		via       string
		installer *pkgmgr.Installer
		message   string
	}
)

const (
	decideSkip decisionKind = iota
	decideSatisfied
	decideInstall
	decideManual
)

// New returns an Orchestrator that runs every external command through runner.
func New(runner procexec.Runner, opts ...Option) *Orchestrator {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	return &Orchestrator{
		config: cfg,
		prober: NewProber(runner),
		table:  pkgmgr.NewTable(runner, cfg.Entries),
		shell:  &procexec.Shell{Runner: runner, Dir: cfg.Dir},
	}
}

// Config returns the orchestrator's configuration.
func (o *Orchestrator) Config() *Config {
	return o.config
}

// Run is RunAll followed by Validate; validation failures are appended to
// the log as errors.
func (o *Orchestrator) Run(ctx context.Context, specs []manifest.ToolSpec, env hostenv.Environment) *Log {
	log := o.RunAll(ctx, specs, env)

	o.config.Reporter.Step("Validating required tools")
	if ok, failures := o.Validate(ctx, specs, env); !ok {
		for _, f := range failures {
			log.Append(f)
			o.config.Reporter.Outcome(f)
		}
	}
	return log
}

// RunAll calls EnsureTool for each spec in order. A failure never prevents
// later tools from being attempted unless strict mode is on. The returned
// log holds exactly one outcome per spec.
func (o *Orchestrator) RunAll(ctx context.Context, specs []manifest.ToolSpec, env hostenv.Environment) *Log {
	log := &Log{}
	halted := false

	for i, spec := range specs {
		var out StepOutcome
		if halted {
			out = o.outcome(spec, StatusSkipped, "not attempted: strict mode stopped after an earlier error")
		} else {
			o.config.Reporter.Step(fmt.Sprintf("[%d/%d] %s", i+1, len(specs), spec.Name))
			out = o.EnsureTool(ctx, spec, env)
			halted = o.config.Strict && out.Status == StatusError
		}
		log.Append(out)
		o.config.Reporter.Outcome(out)
	}
	return log
}

// EnsureTool probes spec and installs it when the probe is not satisfied.
// A satisfied probe returns success without side effects, so calling it
// again after a success performs no install.
func (o *Orchestrator) EnsureTool(ctx context.Context, spec manifest.ToolSpec, env hostenv.Environment) StepOutcome {
	d := o.decide(ctx, spec, env)
	switch d.kind {
	case decideSkip:
		return o.outcome(spec, StatusSkipped, d.message)
	case decideSatisfied:
		return o.outcome(spec, StatusSuccess, "already installed: "+d.probe.Describe(spec.Name))
	case decideManual:
		return o.outcome(spec, StatusWarning, d.message)
	}

	o.config.Reporter.Info("installing "+spec.Name, "via", d.via, "action", d.describeAction())
	res := o.install(ctx, spec, d)
	if !res.Success() {
		return o.outcome(spec, failureStatus(spec),
			fmt.Sprintf("install via %s failed: %v", d.via, res.AsError()))
	}

	after := o.prober.Probe(ctx, spec)
	if !after.Satisfied() {
		msg := fmt.Sprintf("installed via %s but not reachable on PATH", d.via)
		if after.Found {
			msg = fmt.Sprintf("installed via %s but %s", d.via, after.Problem)
		}
		return o.outcome(spec, failureStatus(spec), msg)
	}
	return o.outcome(spec, StatusSuccess, fmt.Sprintf("installed %s via %s", after.Describe(spec.Name), d.via))
}

// Validate re-probes every required tool that applies to env, ignoring what
// RunAll reported. It returns false and one error outcome per failing tool
// when any probe is unsatisfied.
func (o *Orchestrator) Validate(ctx context.Context, specs []manifest.ToolSpec, env hostenv.Environment) (bool, []StepOutcome) {
	var failures []StepOutcome
	for _, spec := range specs {
		if !spec.Required || !spec.AppliesTo(env.OS) || o.config.skipped(spec.Name) {
			continue
		}
		if r := o.prober.Probe(ctx, spec); !r.Satisfied() {
			failures = append(failures, o.outcome(spec, StatusError, "validation failed: "+r.Problem))
		}
	}
	return len(failures) == 0, failures
}

func (o *Orchestrator) decide(ctx context.Context, spec manifest.ToolSpec, env hostenv.Environment) decision {
	if o.config.skipped(spec.Name) {
		return decision{kind: decideSkip, message: "skipped by configuration"}
	}
	if !spec.AppliesTo(env.OS) {
		return decision{kind: decideSkip, message: fmt.Sprintf("not applicable on %s", env.OS)}
	}

	probe := o.prober.Probe(ctx, spec)
	if probe.Satisfied() {
		return decision{kind: decideSatisfied, probe: probe}
	}

	action, via, ok := spec.ActionFor(env.PackageManager)
	if !ok {
		return decision{kind: decideManual, probe: probe, message: manualMessage(spec, env, probe)}
	}
	d := decision{kind: decideInstall, probe: probe, action: action, via: via}
	if !action.IsScript() {
		inst, found := o.table.Lookup(env)
		if !found {
			d.kind = decideManual
			d.message = manualMessage(spec, env, probe)
			return d
		}
		d.installer = inst
		d.via = string(inst.Kind())
	}
	return d
}

func (o *Orchestrator) install(ctx context.Context, spec manifest.ToolSpec, d decision) procexec.Result {
	if d.action.IsScript() {
		return o.shell.Run(ctx, spec.Name, d.action.Script)
	}
	return d.installer.Install(ctx, d.action.Packages)
}

func (o *Orchestrator) outcome(spec manifest.ToolSpec, status Status, msg string) StepOutcome {
	return StepOutcome{
		Tool:      spec.Name,
		Status:    status,
		Message:   msg,
		Timestamp: o.config.Now(),
	}
}

func (d decision) describeAction() string {
	if d.installer != nil {
		return d.installer.InstallCommand(d.action.Packages).String()
	}
	return d.action.String()
}

func failureStatus(spec manifest.ToolSpec) Status {
	if spec.Required {
		return StatusError
	}
	return StatusWarning
}

func manualMessage(spec manifest.ToolSpec, env hostenv.Environment, probe ProbeResult) string {
	return fmt.Sprintf("%s; no install action for package manager %q, install %s manually",
		probe.Problem, env.PackageManager, spec.Name)
}
