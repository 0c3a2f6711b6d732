// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/stackup-dev/stackup/pkg/platform"
	"github.com/stackup-dev/stackup/pkg/toolversion"
)

type (
	// ValidationError is one problem found in a manifest.
	ValidationError struct {
		// Field locates the problem, e.g. "tool 'node' install.apt".
		Field   string
		Message string
	}

	// ValidationErrors collects every problem found in one pass.
	ValidationErrors []ValidationError
)

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Error implements the error interface by joining all messages.
func (errs ValidationErrors) Error() string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "manifest has %d problems:", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Validate runs the checks the CUE schema cannot express and returns every
// problem found.
func (m *Manifest) Validate() ValidationErrors {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if len(m.Tools) == 0 {
		add("tools", "at least one tool is required")
	}

	seen := make(map[string]int, len(m.Tools))
	for i, t := range m.Tools {
		field := fmt.Sprintf("tool '%s'", t.Name)
		if strings.TrimSpace(t.Name) == "" {
			field = fmt.Sprintf("tool #%d", i+1)
			add(field, "name must not be empty")
		} else if prev, dup := seen[t.Name]; dup {
			add(field, "duplicate tool name (first declared as tool #%d)", prev+1)
		} else {
			seen[t.Name] = i
		}

		if strings.TrimSpace(t.Probe.Command) == "" {
			add(field+" probe", "command must not be empty")
		}
		if t.Probe.VersionPattern != "" {
			if _, err := regexp.Compile(t.Probe.VersionPattern); err != nil {
				add(field+" probe.version_pattern", "invalid regexp: %v", err)
			}
		}
		if t.MinVersion != "" {
			if _, err := toolversion.Normalize(t.MinVersion); err != nil {
				add(field+" min_version", "%v", err)
			}
		}
		for _, p := range t.Platforms {
			if ok, _ := p.IsValid(); !ok || p == platform.OSUnknown {
				add(field+" platforms", "unknown platform %q", p)
			}
		}
		for _, key := range slices.Sorted(maps.Keys(t.Install)) {
			validateAction(field+" install."+key, key, t.Install[key], add)
		}
	}

	for _, tech := range m.Layout.Techs {
		if tech == "" || strings.ContainsAny(tech, `/\`) || tech == "." || tech == ".." {
			add("layout.techs", "invalid directory name %q", tech)
		}
	}

	return errs
}

func validateAction(field, key string, action InstallAction, add func(field, format string, args ...any)) {
	if key != AnyPackageManager {
		if ok, _ := platform.PackageManagerKind(key).IsValid(); !ok {
			add(field, "unknown package manager %q", key)
		}
	}

	switch {
	case action.Script != "" && len(action.Packages) > 0:
		add(field, "set either packages or script, not both")
	case action.Script == "" && len(action.Packages) == 0:
		add(field, "packages or script is required")
	case action.Script != "":
		if _, err := syntax.NewParser().Parse(strings.NewReader(action.Script), field); err != nil {
			add(field, "script does not parse: %v", err)
		}
	}
}
