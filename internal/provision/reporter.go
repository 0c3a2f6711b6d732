// SPDX-License-Identifier: MPL-2.0

package provision

// Reporter receives progress while tools are processed. Implementations must
// not block; the orchestrator calls them inline.
type Reporter interface {
	// Step announces that work on a tool begins.
	Step(msg string, keyvals ...any)
	// Info reports detail within a step, such as the command being run.
	Info(msg string, keyvals ...any)
	// Outcome is called once per appended StepOutcome.
	Outcome(o StepOutcome)
}

type nopReporter struct{}

func (nopReporter) Step(string, ...any) {}
func (nopReporter) Info(string, ...any) {}
func (nopReporter) Outcome(StepOutcome) {}
