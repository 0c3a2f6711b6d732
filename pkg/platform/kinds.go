// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
)

const (
	// OSLinux is any Linux distribution; the distro itself is described separately.
	OSLinux OSKind = "linux-distro"
	// OSMacOS is Darwin.
	OSMacOS OSKind = "macos"
	// OSWindows is a Windows host driven from a shell (cmd, PowerShell, Git Bash).
	OSWindows OSKind = "windows-shell"
	// OSUnknown is every other kernel.
	OSUnknown OSKind = "unknown"

	// PackageManagerApt is Debian's apt-get.
	PackageManagerApt PackageManagerKind = "apt"
	// PackageManagerDnf is Fedora/RHEL's dnf.
	PackageManagerDnf PackageManagerKind = "dnf"
	// PackageManagerPacman is Arch's pacman.
	PackageManagerPacman PackageManagerKind = "pacman"
	// PackageManagerBrew is Homebrew (macOS or Linuxbrew).
	PackageManagerBrew PackageManagerKind = "brew"
	// PackageManagerChoco is Chocolatey.
	PackageManagerChoco PackageManagerKind = "choco"
	// PackageManagerScoop is Scoop.
	PackageManagerScoop PackageManagerKind = "scoop"
	// PackageManagerNone means no supported manager was found.
	PackageManagerNone PackageManagerKind = "none"
)

var (
	// ErrInvalidOSKind is the sentinel error wrapped by InvalidOSKindError.
	ErrInvalidOSKind = errors.New("invalid OS kind")
	// ErrInvalidPackageManagerKind is the sentinel error wrapped by InvalidPackageManagerKindError.
	ErrInvalidPackageManagerKind = errors.New("invalid package manager kind")
)

type (
	// OSKind is the coarse operating system family of a host.
	OSKind string

	// PackageManagerKind names a system package manager.
	PackageManagerKind string

	// InvalidOSKindError is returned when an OSKind value is not recognized.
	InvalidOSKindError struct {
		Value OSKind
	}

	// InvalidPackageManagerKindError is returned when a PackageManagerKind
	// value is not recognized.
	InvalidPackageManagerKindError struct {
		Value PackageManagerKind
	}
)

// OSKinds lists every OSKind in declaration order.
func OSKinds() []OSKind {
	return []OSKind{OSLinux, OSMacOS, OSWindows, OSUnknown}
}

// PackageManagerKinds lists every PackageManagerKind in declaration order.
func PackageManagerKinds() []PackageManagerKind {
	return []PackageManagerKind{
		PackageManagerApt, PackageManagerDnf, PackageManagerPacman,
		PackageManagerBrew, PackageManagerChoco, PackageManagerScoop,
		PackageManagerNone,
	}
}

// OSKindFromGOOS maps a runtime.GOOS value to an OSKind.
func OSKindFromGOOS(goos string) OSKind {
	switch goos {
	case Linux:
		return OSLinux
	case Darwin:
		return OSMacOS
	case Windows:
		return OSWindows
	default:
		return OSUnknown
	}
}

// String returns the string representation of the OSKind.
func (k OSKind) String() string { return string(k) }

// IsValid returns whether the OSKind is one of the defined kinds.
func (k OSKind) IsValid() (bool, []error) {
	switch k {
	case OSLinux, OSMacOS, OSWindows, OSUnknown:
		return true, nil
	default:
		return false, []error{&InvalidOSKindError{Value: k}}
	}
}

// String returns the string representation of the PackageManagerKind.
func (k PackageManagerKind) String() string { return string(k) }

// IsValid returns whether the PackageManagerKind is one of the defined kinds.
func (k PackageManagerKind) IsValid() (bool, []error) {
	switch k {
	case PackageManagerApt, PackageManagerDnf, PackageManagerPacman,
		PackageManagerBrew, PackageManagerChoco, PackageManagerScoop,
		PackageManagerNone:
		return true, nil
	default:
		return false, []error{&InvalidPackageManagerKindError{Value: k}}
	}
}

// Error implements the error interface.
func (e *InvalidOSKindError) Error() string {
	return fmt.Sprintf("invalid OS kind %q (valid: linux-distro, macos, windows-shell, unknown)", e.Value)
}

// Unwrap returns ErrInvalidOSKind for errors.Is.
func (e *InvalidOSKindError) Unwrap() error { return ErrInvalidOSKind }

// Error implements the error interface.
func (e *InvalidPackageManagerKindError) Error() string {
	return fmt.Sprintf("invalid package manager %q (valid: apt, dnf, pacman, brew, choco, scoop, none)", e.Value)
}

// Unwrap returns ErrInvalidPackageManagerKind for errors.Is.
func (e *InvalidPackageManagerKindError) Unwrap() error { return ErrInvalidPackageManagerKind }
