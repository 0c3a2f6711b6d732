// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// ExecutableName appends ".exe" to name when goos is Windows and the name
// has no extension yet.
func ExecutableName(goos, name string) string {
	if goos != Windows || strings.HasSuffix(strings.ToLower(name), ".exe") {
		return name
	}
	return name + ".exe"
}
