// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	// StatusSuccess means the tool is present at an acceptable version.
	StatusSuccess Status = "success"
	// StatusWarning means an optional tool is unavailable or a manual step is needed.
	StatusWarning Status = "warning"
	// StatusError means a required tool could not be installed or validated.
	StatusError Status = "error"
	// StatusSkipped means the tool was not attempted.
	StatusSkipped Status = "skipped"
)

// ErrInvalidStatus is the sentinel error wrapped by InvalidStatusError.
var ErrInvalidStatus = errors.New("invalid step status")

type (
	// Status classifies a StepOutcome.
	Status string

	// InvalidStatusError is returned when a Status value is not recognized.
	InvalidStatusError struct {
		Value Status
	}

	// StepOutcome is the recorded result of one attempt to satisfy a tool.
	StepOutcome struct {
		Tool      string    `toml:"tool"`
		Status    Status    `toml:"status"`
		Message   string    `toml:"message"`
		Timestamp time.Time `toml:"timestamp"`
	}

	// Log is the append-only, ordered record of a run. It is the sole source
	// of the run verdict.
	Log struct {
		outcomes []StepOutcome
	}

	// Summary counts outcomes by status.
	Summary struct {
		Success int `toml:"success"`
		Warning int `toml:"warning"`
		Error   int `toml:"error"`
		Skipped int `toml:"skipped"`
	}
)

// Statuses lists every Status in severity order.
func Statuses() []Status {
	return []Status{StatusSuccess, StatusSkipped, StatusWarning, StatusError}
}

// String returns the string representation of the Status.
func (s Status) String() string { return string(s) }

// IsValid returns whether the Status is one of the defined statuses,
// and a list of validation errors if it is not.
func (s Status) IsValid() (bool, []error) {
	if slices.Contains(Statuses(), s) {
		return true, nil
	}
	return false, []error{&InvalidStatusError{Value: s}}
}

// Error implements the error interface.
func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid step status %q (valid: success, warning, error, skipped)", e.Value)
}

// Unwrap returns ErrInvalidStatus for errors.Is.
func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// Append records outcomes at the end of the log.
func (l *Log) Append(outcomes ...StepOutcome) {
	l.outcomes = append(l.outcomes, outcomes...)
}

// Len returns the number of recorded outcomes.
func (l *Log) Len() int {
	return len(l.outcomes)
}

// Outcomes returns a copy of the recorded outcomes in order.
func (l *Log) Outcomes() []StepOutcome {
	return slices.Clone(l.outcomes)
}

// Summary folds the log.
func (l *Log) Summary() Summary {
	return Summarize(l.outcomes)
}

// Summarize folds outcomes into per-status counts.
func Summarize(outcomes []StepOutcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			s.Success++
		case StatusWarning:
			s.Warning++
		case StatusError:
			s.Error++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// Failed reports whether any error outcome was recorded.
func (s Summary) Failed() bool {
	return s.Error > 0
}

// Total returns the number of counted outcomes.
func (s Summary) Total() int {
	return s.Success + s.Warning + s.Error + s.Skipped
}

// String renders the summary on one line.
func (s Summary) String() string {
	return fmt.Sprintf("%d succeeded, %d warnings, %d errors, %d skipped", s.Success, s.Warning, s.Error, s.Skipped)
}
