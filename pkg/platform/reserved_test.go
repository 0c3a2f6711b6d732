// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestIsWindowsReservedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"CON", true},
		{"con", true},
		{"Lpt1.txt", true},
		{"PHP", false},
		{"CONSOLE", false},
		{"TypeScript", false},
	}
	for _, tt := range tests {
		if got := IsWindowsReservedName(tt.name); got != tt.want {
			t.Errorf("IsWindowsReservedName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
