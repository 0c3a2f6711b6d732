// SPDX-License-Identifier: MPL-2.0

// Package provision brings a host to the state declared by a manifest: every
// applicable tool present on PATH at or above its minimum version.
//
// The Orchestrator processes tools strictly in manifest order. For each tool
// it probes first and installs only when the probe is not satisfied, so
// re-running is always safe and is the recovery path after a partial run.
// Every attempt appends exactly one StepOutcome to an append-only Log; the
// run verdict is a fold over that log (Summarize), never a counter:
//
//	orch := provision.New(runner, provision.WithReporter(j))
//	log := orch.Run(ctx, m.Tools, env)
//	if provision.Summarize(log.Outcomes()).Failed() {
//		// at least one error outcome
//	}
//
// A failing tool never stops later tools unless strict mode is enabled.
package provision
