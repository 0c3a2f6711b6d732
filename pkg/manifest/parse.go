// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/format"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/stackup-dev/stackup/pkg/cueutil"
)

//go:embed manifest_schema.cue
var manifestSchema string

// ErrNotFound is returned by Load when the manifest file does not exist.
var ErrNotFound = errors.New("manifest not found")

// Path returns the manifest path for a project root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist. loaded reports whether the file was read.
func LoadOrDefault(path string) (m *Manifest, loaded bool, err error) {
	m, err = Load(path)
	if errors.Is(err, ErrNotFound) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// Parse decodes manifest content. path is used for error messages.
func Parse(data []byte, path string) (*Manifest, error) {
	result, err := cueutil.ParseAndDecodeString[Manifest](
		manifestSchema,
		data,
		"#Manifest",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	m := result.Value
	m.FilePath = path

	if errs := m.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return m, nil
}

// Encode renders m as formatted CUE accepted by Parse.
func Encode(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	expr, err := cuejson.Extract(FileName, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	out, err := format.Node(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to format manifest: %w", err)
	}
	return append([]byte("// stackup manifest\n"), out...), nil
}
