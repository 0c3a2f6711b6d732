// SPDX-License-Identifier: MPL-2.0

// Package workspace creates the project directory layout: a Before/<Tech>
// and an After/<Tech> directory for every technology.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/stackup-dev/stackup/pkg/platform"
)

const (
	// BeforeDir holds the source material for each technology.
	BeforeDir = "Before"
	// AfterDir holds the converted result for each technology.
	AfterDir = "After"
)

// ErrInvalidTech is returned for a technology name that is not a single
// path element or is reserved on Windows.
var ErrInvalidTech = errors.New("invalid technology name")

// Dirs returns the layout directories for techs, relative to the root.
func Dirs(techs []string) []string {
	out := make([]string, 0, 2*len(techs))
	for _, side := range []string{BeforeDir, AfterDir} {
		for _, tech := range techs {
			out = append(out, filepath.Join(side, tech))
		}
	}
	return out
}

// EnsureLayout creates every missing layout directory under root and
// returns the ones it created. Existing directories and their content are
// left alone; a regular file in the way is an error.
func EnsureLayout(root string, techs []string) ([]string, error) {
	for _, tech := range techs {
		if tech == "" || tech == "." || tech == ".." || strings.ContainsAny(tech, `/\`) ||
			platform.IsWindowsReservedName(tech) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTech, tech)
		}
	}

	var created []string
	for _, rel := range Dirs(techs) {
		path := filepath.Join(root, rel)
		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			continue
		case err == nil:
			return created, fmt.Errorf("%s exists and is not a directory", path)
		case !errors.Is(err, fs.ErrNotExist):
			return created, fmt.Errorf("inspect %s: %w", path, err)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return created, fmt.Errorf("create %s: %w", path, err)
		}
		created = append(created, rel)
	}
	return created, nil
}
