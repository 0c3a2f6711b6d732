// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetHomeDir points the home directory and the user config directory at dir
// and returns a cleanup function restoring the originals.
//
// Platform handling:
//   - Windows: USERPROFILE=dir, APPDATA=dir\AppData\Roaming
//   - Linux/macOS: HOME=dir, XDG_CONFIG_HOME=dir/.config
//
// Usage:
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	var cleanups []func()
	switch runtime.GOOS {
	case "windows":
		cleanups = append(cleanups,
			MustSetenv(t, "USERPROFILE", dir),
			MustSetenv(t, "APPDATA", filepath.Join(dir, "AppData", "Roaming")),
		)
	default:
		cleanups = append(cleanups,
			MustSetenv(t, "HOME", dir),
			MustSetenv(t, "XDG_CONFIG_HOME", filepath.Join(dir, ".config")),
		)
	}
	return func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
}
