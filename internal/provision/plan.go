// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"

	"github.com/stackup-dev/stackup/internal/hostenv"
	"github.com/stackup-dev/stackup/pkg/manifest"
)

const (
	// PlanSatisfied means the tool is already present.
	PlanSatisfied PlanAction = "satisfied"
	// PlanInstall means an install action would run.
	PlanInstall PlanAction = "install"
	// PlanManual means no install action applies.
	PlanManual PlanAction = "manual"
	// PlanSkip means the tool would not be attempted.
	PlanSkip PlanAction = "skip"
)

type (
	// PlanAction is what a dry run predicts for a tool.
	PlanAction string

	// PlannedStep is one line of a dry run.
	PlannedStep struct {
		Tool     string
		Required bool
		Action   PlanAction
		// Via is the package manager key or "any".
		Via string
		// Detail is the command that would run, the probe result or the
		// reason for skipping.
		Detail string
	}
)

// Plan probes every tool and reports what EnsureTool would do, without
// installing anything.
func (o *Orchestrator) Plan(ctx context.Context, specs []manifest.ToolSpec, env hostenv.Environment) []PlannedStep {
	steps := make([]PlannedStep, 0, len(specs))
	for _, spec := range specs {
		d := o.decide(ctx, spec, env)
		step := PlannedStep{Tool: spec.Name, Required: spec.Required}
		switch d.kind {
		case decideSkip:
			step.Action, step.Detail = PlanSkip, d.message
		case decideSatisfied:
			step.Action, step.Detail = PlanSatisfied, d.probe.Describe(spec.Name)
		case decideManual:
			step.Action, step.Detail = PlanManual, d.message
		case decideInstall:
			step.Action, step.Via, step.Detail = PlanInstall, d.via, d.describeAction()
		}
		steps = append(steps, step)
	}
	return steps
}
