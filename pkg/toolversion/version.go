// SPDX-License-Identifier: MPL-2.0

// Package toolversion extracts versions from tool output and compares them.
// Tools print versions in many shapes ("v20.11.1", "git version 2.43.0",
// "PHP 8.3.2 (cli)"); everything is normalised to canonical semver before
// comparison with golang.org/x/mod/semver.
package toolversion

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// DefaultPattern matches the first dotted version number in tool output.
const DefaultPattern = `\d+(\.\d+){0,2}`

var (
	// ErrNoVersion is returned when no version could be found in the output.
	ErrNoVersion = errors.New("no version found in output")
	// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
	ErrInvalidVersion = errors.New("invalid version")

	defaultRe = regexp.MustCompile(DefaultPattern)
)

// InvalidVersionError is returned when a string cannot be normalised to semver.
type InvalidVersionError struct {
	Value string
}

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q (expected MAJOR[.MINOR[.PATCH]])", e.Value)
}

// Unwrap returns ErrInvalidVersion for errors.Is.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// Normalize converts "18", "v18.2" or "18.2.0" to canonical "v18.2.0".
// Pre-release and build suffixes are kept when the core is well formed.
func Normalize(v string) (string, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return "", &InvalidVersionError{Value: v}
	}
	if s[0] != 'v' {
		s = "v" + s
	}

	core, rest := s, ""
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		core, rest = s[:i], s[i:]
	}
	switch strings.Count(core, ".") {
	case 0:
		core += ".0.0"
	case 1:
		core += ".0"
	}

	c := semver.Canonical(core + rest)
	if c == "" {
		return "", &InvalidVersionError{Value: v}
	}
	return c, nil
}

// Compile compiles a version pattern; an empty pattern selects DefaultPattern.
func Compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return defaultRe, nil
	}
	return regexp.Compile(pattern)
}

// Extract finds the version in output using re. When re has a capture
// group named "version" that group is the version; otherwise the whole
// match is.
func Extract(re *regexp.Regexp, output string) (string, error) {
	if re == nil {
		re = defaultRe
	}
	m := re.FindStringSubmatch(output)
	if m == nil {
		return "", ErrNoVersion
	}
	if i := re.SubexpIndex("version"); i > 0 {
		if m[i] == "" {
			return "", ErrNoVersion
		}
		return m[i], nil
	}
	return m[0], nil
}

// AtLeast reports whether have >= min. An empty min is always satisfied.
func AtLeast(have, minimum string) (bool, error) {
	if strings.TrimSpace(minimum) == "" {
		return true, nil
	}
	h, err := Normalize(have)
	if err != nil {
		return false, err
	}
	m, err := Normalize(minimum)
	if err != nil {
		return false, err
	}
	return semver.Compare(h, m) >= 0, nil
}
