// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared by the CLI and the domain
// packages. It imports only the standard library.
package types

import (
	"errors"
	"fmt"
	"strconv"
)

// Exit codes returned by the stackup CLI.
const (
	// ExitSuccess means every required tool is present and, when requested,
	// the build produced all artifacts.
	ExitSuccess ExitCode = 0
	// ExitProvisionFailed means the run recorded at least one error outcome.
	ExitProvisionFailed ExitCode = 1
	// ExitBuildFailed means a build stage failed.
	ExitBuildFailed ExitCode = 2
	// ExitConfigError means the config or manifest could not be loaded.
	ExitConfigError ExitCode = 3
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code in the range 0-255.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether the code is zero.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal representation.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
