// SPDX-License-Identifier: MPL-2.0

package hostenv

import (
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stackup-dev/stackup/pkg/platform"
)

const ubuntuOSRelease = `PRETTY_NAME="Ubuntu 24.04.1 LTS"
NAME="Ubuntu"
VERSION_ID="24.04"
ID=ubuntu
ID_LIKE=debian
HOME_URL="https://www.ubuntu.com/"
`

// fakeEnv returns a LookupEnv func backed by vars.
func fakeEnv(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

// fakePath returns a LookPath func that finds only the listed binaries.
func fakePath(bins ...string) LookPathFunc {
	return func(file string) (string, error) {
		for _, b := range bins {
			if b == file {
				return "/usr/bin/" + b, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		probe Probe
		want  Environment
	}{
		{
			name: "debian family workstation",
			probe: Probe{
				GOOS:     "linux",
				GOARCH:   "amd64",
				ReadFile: func(string) ([]byte, error) { return []byte(ubuntuOSRelease), nil },
				LookPath: fakePath("apt-get", "dnf"),
				Geteuid:  func() int { return 1000 },
			},
			want: Environment{
				OS:             platform.OSLinux,
				Distro:         Distro{ID: "ubuntu", Version: "24.04", Name: "Ubuntu 24.04.1 LTS", Family: FamilyDebian},
				Arch:           "amd64",
				CIPlatform:     CINone,
				PackageManager: platform.PackageManagerApt,
			},
		},
		{
			name: "linux without os-release in github actions as root",
			probe: Probe{
				GOOS:      "linux",
				GOARCH:    "arm64",
				LookupEnv: fakeEnv(map[string]string{"CI": "true", "GITHUB_ACTIONS": "true"}),
				LookPath:  fakePath("pacman"),
				Geteuid:   func() int { return 0 },
			},
			want: Environment{
				OS:             platform.OSLinux,
				Distro:         UnknownDistro(),
				Arch:           "arm64",
				IsCI:           true,
				CIPlatform:     CIGitHubActions,
				PackageManager: platform.PackageManagerPacman,
				Privileged:     true,
			},
		},
		{
			name: "macos without brew",
			probe: Probe{
				GOOS:   "darwin",
				GOARCH: "arm64",
			},
			want: Environment{
				OS:             platform.OSMacOS,
				Arch:           "arm64",
				CIPlatform:     CINone,
				PackageManager: platform.PackageManagerNone,
			},
		},
		{
			name: "windows prefers choco over scoop",
			probe: Probe{
				GOOS:     "windows",
				GOARCH:   "amd64",
				LookPath: fakePath("scoop", "choco"),
			},
			want: Environment{
				OS:             platform.OSWindows,
				Arch:           "amd64",
				CIPlatform:     CINone,
				PackageManager: platform.PackageManagerChoco,
			},
		},
		{
			name:  "unknown kernel falls back everywhere",
			probe: Probe{GOOS: "plan9"},
			want: Environment{
				OS:             platform.OSUnknown,
				Arch:           "unknown",
				CIPlatform:     CINone,
				PackageManager: platform.PackageManagerNone,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Detect(tt.probe)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDetect_UnreadableOSRelease(t *testing.T) {
	t.Parallel()

	env := Detect(Probe{
		GOOS:     "linux",
		ReadFile: func(string) ([]byte, error) { return nil, os.ErrPermission },
	})
	if env.Distro.Family != FamilyUnknown {
		t.Errorf("Distro.Family = %q, want unknown", env.Distro.Family)
	}
}

func TestCIPlatformFromEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		vars   map[string]string
		wantCI bool
		want   CIPlatform
	}{
		{"none", nil, false, CINone},
		{"generic", map[string]string{"CI": "1"}, true, CIGeneric},
		{"ci false", map[string]string{"CI": "false"}, false, CINone},
		{"render", map[string]string{"RENDER": "true"}, true, CIRender},
		{"vercel over generic", map[string]string{"CI": "1", "VERCEL": "1"}, true, CIVercel},
		{"github over render", map[string]string{"RENDER": "true", "GITHUB_ACTIONS": "true"}, true, CIGitHubActions},
		{"empty value ignored", map[string]string{"VERCEL": ""}, false, CINone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			isCI, got := CIPlatformFromEnv(fakeEnv(tt.vars))
			if isCI != tt.wantCI || got != tt.want {
				t.Errorf("CIPlatformFromEnv() = (%v, %q), want (%v, %q)", isCI, got, tt.wantCI, tt.want)
			}
		})
	}
}

func TestResolvePackageManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		os   platform.OSKind
		bins []string
		want platform.PackageManagerKind
	}{
		{"apt before dnf", platform.OSLinux, []string{"dnf", "apt-get"}, platform.PackageManagerApt},
		{"dnf before pacman", platform.OSLinux, []string{"pacman", "dnf"}, platform.PackageManagerDnf},
		{"linuxbrew last", platform.OSLinux, []string{"brew"}, platform.PackageManagerBrew},
		{"macos brew", platform.OSMacOS, []string{"brew", "apt-get"}, platform.PackageManagerBrew},
		{"macos apt is ignored", platform.OSMacOS, []string{"apt-get"}, platform.PackageManagerNone},
		{"windows scoop only", platform.OSWindows, []string{"scoop"}, platform.PackageManagerScoop},
		{"unknown os", platform.OSUnknown, []string{"apt-get", "brew"}, platform.PackageManagerNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePackageManager(tt.os, fakePath(tt.bins...)); got != tt.want {
				t.Errorf("ResolvePackageManager() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := ResolvePackageManager(platform.OSLinux, nil); got != platform.PackageManagerNone {
		t.Errorf("nil lookPath: got %q, want none", got)
	}
}

func TestCIPlatformIsValid(t *testing.T) {
	t.Parallel()

	if ok, _ := CIGeneric.IsValid(); !ok {
		t.Error("CIGeneric should be valid")
	}
	ok, errs := CIPlatform("jenkins").IsValid()
	if ok || !errors.Is(errs[0], ErrInvalidCIPlatform) {
		t.Errorf("CIPlatform(jenkins).IsValid() = %v, %v", ok, errs)
	}
}

func TestEnvironmentDescribe(t *testing.T) {
	t.Parallel()

	env := Environment{
		OS:             platform.OSLinux,
		Distro:         Distro{ID: "fedora", Family: FamilyRHEL},
		Arch:           "amd64",
		IsCI:           true,
		CIPlatform:     CIGeneric,
		PackageManager: platform.PackageManagerDnf,
	}
	want := "linux-distro (fedora, rhel family) amd64, package manager dnf, CI generic"
	if got := env.Describe(); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
