// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stackup-dev/stackup/pkg/platform"
)

const sampleManifest = `
tools: [
	{
		name:        "node"
		required:    true
		min_version: "18"
		probe: command: "node"
		install: {
			apt:  packages: ["nodejs"]
			brew: packages: ["node"]
		}
	},
	{
		name: "hhvm"
		platforms: ["linux-distro"]
		probe: {
			command:         "hhvm"
			version_pattern: "HipHop VM (?P<version>[0-9.]+)"
		}
		install: any: script: "curl -fsSL https://example.invalid/hhvm.sh | sh"
	},
]
layout: techs: ["PHP", "Hack"]
build: {
	bundle:     "public/app.js"
	ts_compiler: "npx tsc"
}
`

func TestParse(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(sampleManifest), "stackup.cue")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := &Manifest{
		Tools: []ToolSpec{
			{
				Name:       "node",
				Required:   true,
				MinVersion: "18",
				Probe:      Probe{Command: "node"},
				Install: map[string]InstallAction{
					"apt":  {Packages: []string{"nodejs"}},
					"brew": {Packages: []string{"node"}},
				},
			},
			{
				Name:      "hhvm",
				Platforms: []platform.OSKind{platform.OSLinux},
				Probe:     Probe{Command: "hhvm", VersionPattern: "HipHop VM (?P<version>[0-9.]+)"},
				Install: map[string]InstallAction{
					AnyPackageManager: {Script: "curl -fsSL https://example.invalid/hhvm.sh | sh"},
				},
			},
		},
		Layout:   Layout{Techs: []string{"PHP", "Hack"}},
		Build:    Build{Bundle: "public/app.js", TSCompiler: "npx tsc"},
		FilePath: "stackup.cue",
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantSub string
	}{
		{
			name:    "no tools",
			data:    `tools: []`,
			wantSub: "tools",
		},
		{
			name:    "unknown package manager key",
			data:    `tools: [{name: "git", probe: command: "git", install: yum: packages: ["git"]}]`,
			wantSub: "yum",
		},
		{
			name:    "upper case name",
			data:    `tools: [{name: "Git", probe: command: "git"}]`,
			wantSub: "name",
		},
		{
			name:    "unknown field",
			data:    `tools: [{name: "git", probe: command: "git", retries: 3}]`,
			wantSub: "retries",
		},
		{
			name:    "bad min version",
			data:    `tools: [{name: "git", probe: command: "git", min_version: "latest"}]`,
			wantSub: "min_version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data), "stackup.cue")
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Parse() error = %q, want it to mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	m := &Manifest{
		Tools: []ToolSpec{
			{Name: "git", Probe: Probe{Command: "git"}},
			{Name: "git", Probe: Probe{Command: "git"}},
			{
				Name:  "broken",
				Probe: Probe{Command: "broken", VersionPattern: "("},
				Install: map[string]InstallAction{
					"apt":  {Script: "if then fi"},
					"brew": {},
					"yum":  {Packages: []string{"x"}},
				},
			},
		},
		Layout: Layout{Techs: []string{"../escape"}},
	}

	errs := m.Validate()
	wantFields := []string{
		"tool 'git'",
		"tool 'broken' probe.version_pattern",
		"tool 'broken' install.apt",
		"tool 'broken' install.brew",
		"tool 'broken' install.yum",
		"layout.techs",
	}
	var gotFields []string
	for _, e := range errs {
		gotFields = append(gotFields, e.Field)
	}
	if diff := cmp.Diff(wantFields, gotFields); diff != "" {
		t.Errorf("Validate() fields mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(errs.Error(), "6 problems") {
		t.Errorf("ValidationErrors.Error() = %q", errs.Error())
	}
}

func TestDefault_IsValidAndRoundTrips(t *testing.T) {
	t.Parallel()

	def := Default()
	if errs := def.Validate(); len(errs) > 0 {
		t.Fatalf("Default() is invalid: %v", errs)
	}

	data, err := Encode(def)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	parsed, err := Parse(data, FileName)
	if err != nil {
		t.Fatalf("Parse(Encode(Default())) error: %v\n%s", err, data)
	}
	parsed.FilePath = ""
	if diff := cmp.Diff(def, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestToolSpec_ActionFor(t *testing.T) {
	t.Parallel()

	spec := ToolSpec{
		Name: "typescript",
		Install: map[string]InstallAction{
			"brew":            {Packages: []string{"typescript"}},
			AnyPackageManager: {Script: "npm install -g typescript"},
		},
	}

	a, key, ok := spec.ActionFor(platform.PackageManagerBrew)
	if !ok || key != "brew" || a.IsScript() {
		t.Errorf("ActionFor(brew) = %+v, %q, %v", a, key, ok)
	}
	a, key, ok = spec.ActionFor(platform.PackageManagerApt)
	if !ok || key != AnyPackageManager || !a.IsScript() {
		t.Errorf("ActionFor(apt) = %+v, %q, %v", a, key, ok)
	}

	hhvm, _ := Default().Tool("hhvm")
	if _, _, ok := hhvm.ActionFor(platform.PackageManagerNone); ok {
		t.Error("hhvm should have no action for package manager none")
	}
}

func TestToolSpec_AppliesTo(t *testing.T) {
	t.Parallel()

	everywhere := ToolSpec{Name: "git"}
	mac := ToolSpec{Name: "homebrew", Platforms: []platform.OSKind{platform.OSMacOS}}

	if !everywhere.AppliesTo(platform.OSWindows) {
		t.Error("tool without platforms should apply everywhere")
	}
	if mac.AppliesTo(platform.OSLinux) {
		t.Error("macos-only tool applied to linux")
	}
	if !mac.AppliesTo(platform.OSMacOS) {
		t.Error("macos-only tool did not apply to macos")
	}
}

func TestProbe_ProbeArgs(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"--version"}, Probe{Command: "git"}.ProbeArgs()); diff != "" {
		t.Errorf("default args mismatch: %s", diff)
	}
	if got := (Probe{Command: "x", Args: []string{}}).ProbeArgs(); len(got) != 0 {
		t.Errorf("explicit empty args = %v, want none", got)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	m, loaded, err := LoadOrDefault(Path(dir))
	if err != nil || loaded {
		t.Fatalf("LoadOrDefault(missing) = loaded %v, err %v", loaded, err)
	}
	if len(m.Tools) != len(Default().Tools) {
		t.Errorf("missing file should yield the default manifest")
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	m, loaded, err = LoadOrDefault(Path(dir))
	if err != nil || !loaded {
		t.Fatalf("LoadOrDefault(present) = loaded %v, err %v", loaded, err)
	}
	if m.FilePath != Path(dir) {
		t.Errorf("FilePath = %q, want %q", m.FilePath, Path(dir))
	}

	if _, err := Load(filepath.Join(dir, "nope.cue")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrNotFound", err)
	}
}
