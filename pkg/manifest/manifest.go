// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"slices"
	"strings"

	"github.com/stackup-dev/stackup/pkg/platform"
)

const (
	// FileName is the manifest file looked up in the project root.
	FileName = "stackup.cue"

	// AnyPackageManager keys the install action used when no entry matches
	// the host's package manager.
	AnyPackageManager = "any"
)

type (
	// Manifest is the decoded stackup.cue.
	Manifest struct {
		// Tools are provisioned in this order.
		Tools  []ToolSpec `json:"tools"`
		Layout Layout     `json:"layout"`
		Build  Build      `json:"build"`

		// FilePath is where the manifest was loaded from; empty for Default.
		FilePath string `json:"-"`
	}

	// ToolSpec declares one installable dependency.
	ToolSpec struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		// Required tools turn install and validation failures into errors.
		Required   bool   `json:"required,omitempty"`
		MinVersion string `json:"min_version,omitempty"`
		// Platforms restricts the tool to these OS kinds; empty means all.
		Platforms []platform.OSKind `json:"platforms,omitempty"`
		Probe     Probe             `json:"probe"`
		// Install is keyed by package manager kind or AnyPackageManager.
		Install map[string]InstallAction `json:"install,omitempty"`
	}

	// Probe detects a tool and reads its version.
	Probe struct {
		Command string   `json:"command"`
		Args    []string `json:"args,omitempty"`
		// VersionPattern is a regexp; a group named "version" selects the
		// version when the whole match contains more.
		VersionPattern string `json:"version_pattern,omitempty"`
	}

	// InstallAction is either a package list for the package manager or a
	// shell script. Exactly one is set.
	InstallAction struct {
		Packages []string `json:"packages,omitempty"`
		Script   string   `json:"script,omitempty"`
	}

	// Layout lists the technologies that get Before/<Tech> and After/<Tech>.
	Layout struct {
		Techs []string `json:"techs,omitempty"`
	}

	// Build overrides the build pipeline paths and compilers. Empty fields
	// keep the build package defaults.
	Build struct {
		ScriptEntry string `json:"script_entry,omitempty"`
		Bundle      string `json:"bundle,omitempty"`
		StyleEntry  string `json:"style_entry,omitempty"`
		Stylesheet  string `json:"stylesheet,omitempty"`
		HTML        string `json:"html,omitempty"`
		Title       string `json:"title,omitempty"`
		TSCompiler  string `json:"ts_compiler,omitempty"`
		CSSCompiler string `json:"css_compiler,omitempty"`
	}
)

// Tool returns the tool declared as name.
func (m *Manifest) Tool(name string) (ToolSpec, bool) {
	i := slices.IndexFunc(m.Tools, func(t ToolSpec) bool { return t.Name == name })
	if i < 0 {
		return ToolSpec{}, false
	}
	return m.Tools[i], true
}

// Required returns the required tools in manifest order.
func (m *Manifest) Required() []ToolSpec {
	var out []ToolSpec
	for _, t := range m.Tools {
		if t.Required {
			out = append(out, t)
		}
	}
	return out
}

// AppliesTo reports whether the tool is provisioned on osKind.
func (t ToolSpec) AppliesTo(osKind platform.OSKind) bool {
	return len(t.Platforms) == 0 || slices.Contains(t.Platforms, osKind)
}

// ActionFor returns the install action for pm, falling back to the
// AnyPackageManager entry. key is the entry that matched.
func (t ToolSpec) ActionFor(pm platform.PackageManagerKind) (action InstallAction, key string, ok bool) {
	if a, found := t.Install[string(pm)]; found {
		return a, string(pm), true
	}
	if a, found := t.Install[AnyPackageManager]; found {
		return a, AnyPackageManager, true
	}
	return InstallAction{}, "", false
}

// ProbeArgs returns the probe arguments, defaulting to --version.
func (p Probe) ProbeArgs() []string {
	if p.Args == nil {
		return []string{"--version"}
	}
	return p.Args
}

// IsScript reports whether the action runs a shell script.
func (a InstallAction) IsScript() bool {
	return a.Script != ""
}

// String renders the action for plans and log lines.
func (a InstallAction) String() string {
	if a.IsScript() {
		return firstLine(a.Script)
	}
	return "install " + strings.Join(a.Packages, " ")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
