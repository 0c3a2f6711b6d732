// SPDX-License-Identifier: MPL-2.0

package toolversion

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "18", want: "v18.0.0"},
		{in: "v18", want: "v18.0.0"},
		{in: "18.2", want: "v18.2.0"},
		{in: "20.11.1", want: "v20.11.1"},
		{in: " 8.3.2 ", want: "v8.3.2"},
		{in: "1.2.3-rc.1", want: "v1.2.3-rc.1"},
		{in: "", wantErr: true},
		{in: "latest", wantErr: true},
		{in: "1.x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVersion) {
					t.Fatalf("Normalize(%q) error = %v, want ErrInvalidVersion", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		output  string
		want    string
		wantErr error
	}{
		{name: "node", output: "v20.11.1\n", want: "20.11.1"},
		{name: "git", output: "git version 2.43.0", want: "2.43.0"},
		{name: "php", output: "PHP 8.3.2 (cli) (built: Jan 16 2024)\nCopyright (c) The PHP Group", want: "8.3.2"},
		{name: "two components", output: "Composer 2.7", want: "2.7"},
		{
			name:    "named group",
			pattern: `HipHop VM (?P<version>\d+\.\d+\.\d+)`,
			output:  "HipHop VM 4.172.1 (rel) (non-lowptr)\nCompiler: 1701",
			want:    "4.172.1",
		},
		{name: "nothing", output: "command not found", wantErr: ErrNoVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			re, err := Compile(tt.pattern)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tt.pattern, err)
			}
			got, err := Extract(re, tt.output)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Extract() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAtLeast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		have, minimum string
		want          bool
	}{
		{"20.11.1", "18", true},
		{"18.0.0", "18", true},
		{"16.20.2", "18", false},
		{"2.43.0", "", true},
		{"8.1", "8.1.0", true},
		{"1.10.0", "1.9", true},
	}

	for _, tt := range tests {
		got, err := AtLeast(tt.have, tt.minimum)
		if err != nil {
			t.Fatalf("AtLeast(%q, %q) unexpected error: %v", tt.have, tt.minimum, err)
		}
		if got != tt.want {
			t.Errorf("AtLeast(%q, %q) = %v, want %v", tt.have, tt.minimum, got, tt.want)
		}
	}

	if _, err := AtLeast("garbage", "1.0"); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("AtLeast(garbage) error = %v, want ErrInvalidVersion", err)
	}
}
