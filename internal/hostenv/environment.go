// SPDX-License-Identifier: MPL-2.0

package hostenv

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/stackup-dev/stackup/pkg/platform"
)

const (
	// CIGitHubActions is GitHub Actions (GITHUB_ACTIONS=true).
	CIGitHubActions CIPlatform = "github-actions"
	// CIRender is Render (RENDER set).
	CIRender CIPlatform = "render"
	// CIVercel is Vercel (VERCEL set).
	CIVercel CIPlatform = "vercel"
	// CIGeneric is any other CI system that exports CI.
	CIGeneric CIPlatform = "generic"
	// CINone means not running under CI.
	CINone CIPlatform = "none"

	osReleasePath = "/etc/os-release"
)

// ErrInvalidCIPlatform is the sentinel error wrapped by InvalidCIPlatformError.
var ErrInvalidCIPlatform = errors.New("invalid CI platform")

type (
	// CIPlatform identifies the CI or hosting platform the run executes on.
	CIPlatform string

	// InvalidCIPlatformError is returned when a CIPlatform value is not recognized.
	InvalidCIPlatformError struct {
		Value CIPlatform
	}

	// Environment is the immutable host snapshot taken once per run.
	Environment struct {
		OS             platform.OSKind             `toml:"os"`
		Distro         Distro                      `toml:"distro"`
		Arch           string                      `toml:"arch"`
		IsCI           bool                        `toml:"is_ci"`
		CIPlatform     CIPlatform                  `toml:"ci_platform"`
		PackageManager platform.PackageManagerKind `toml:"package_manager"`
		// Privileged is true when running as root; system package managers
		// are then invoked without sudo.
		Privileged bool `toml:"privileged"`
	}

	// LookPathFunc resolves an executable name on PATH.
	LookPathFunc func(file string) (string, error)

	// Probe bundles the host lookups Detect relies on. Tests substitute
	// every field; SystemProbe wires the real host.
	Probe struct {
		GOOS      string
		GOARCH    string
		LookupEnv func(key string) (string, bool)
		ReadFile  func(name string) ([]byte, error)
		LookPath  LookPathFunc
		Geteuid   func() int
	}
)

// SystemProbe returns a Probe backed by the running process and host.
func SystemProbe() Probe {
	return Probe{
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		LookupEnv: os.LookupEnv,
		ReadFile:  os.ReadFile,
		LookPath:  exec.LookPath,
		Geteuid:   os.Geteuid,
	}
}

// Detect builds the Environment snapshot. It never fails.
func Detect(p Probe) Environment {
	p = p.withDefaults()

	env := Environment{
		OS:   platform.OSKindFromGOOS(p.GOOS),
		Arch: p.GOARCH,
	}
	if env.Arch == "" {
		env.Arch = "unknown"
	}

	if env.OS == platform.OSLinux {
		env.Distro = UnknownDistro()
		if data, err := p.ReadFile(osReleasePath); err == nil {
			env.Distro = ParseOSRelease(data)
		}
	}

	env.IsCI, env.CIPlatform = CIPlatformFromEnv(p.LookupEnv)
	env.PackageManager = ResolvePackageManager(env.OS, p.LookPath)

	// Geteuid reports -1 on Windows, where elevation cannot be read this way.
	env.Privileged = p.Geteuid() == 0

	return env
}

func (p Probe) withDefaults() Probe {
	if p.LookupEnv == nil {
		p.LookupEnv = func(string) (string, bool) { return "", false }
	}
	if p.ReadFile == nil {
		p.ReadFile = func(name string) ([]byte, error) { return nil, os.ErrNotExist }
	}
	if p.LookPath == nil {
		p.LookPath = func(file string) (string, error) { return "", exec.ErrNotFound }
	}
	if p.Geteuid == nil {
		p.Geteuid = func() int { return -1 }
	}
	return p
}

// CIPlatformFromEnv inspects the CI indicator variables. Platform-specific
// indicators win over the generic CI flag.
func CIPlatformFromEnv(lookup func(string) (string, bool)) (bool, CIPlatform) {
	set := func(key string) bool {
		v, ok := lookup(key)
		return ok && v != "" && v != "false" && v != "0"
	}

	switch {
	case set("GITHUB_ACTIONS"):
		return true, CIGitHubActions
	case set("RENDER"):
		return true, CIRender
	case set("VERCEL"):
		return true, CIVercel
	case set("CI"):
		return true, CIGeneric
	default:
		return false, CINone
	}
}

// String returns the string representation of the CIPlatform.
func (c CIPlatform) String() string { return string(c) }

// IsValid returns whether the CIPlatform is one of the defined platforms.
func (c CIPlatform) IsValid() (bool, []error) {
	switch c {
	case CIGitHubActions, CIRender, CIVercel, CIGeneric, CINone:
		return true, nil
	default:
		return false, []error{&InvalidCIPlatformError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidCIPlatformError) Error() string {
	return fmt.Sprintf("invalid CI platform %q (valid: github-actions, render, vercel, generic, none)", e.Value)
}

// Unwrap returns ErrInvalidCIPlatform for errors.Is.
func (e *InvalidCIPlatformError) Unwrap() error { return ErrInvalidCIPlatform }

// Describe returns a one-line human summary, e.g.
// "linux-distro (Ubuntu 24.04 LTS, debian family) amd64, package manager apt".
func (e Environment) Describe() string {
	osPart := e.OS.String()
	if e.OS == platform.OSLinux {
		osPart = fmt.Sprintf("%s (%s, %s family)", osPart, e.Distro.DisplayName(), e.Distro.Family)
	}
	s := fmt.Sprintf("%s %s, package manager %s", osPart, e.Arch, e.PackageManager)
	if e.IsCI {
		s += ", CI " + e.CIPlatform.String()
	}
	return s
}
