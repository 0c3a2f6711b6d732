// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, c := range ColorSchemes() {
		if ok, errs := c.IsValid(); !ok {
			t.Errorf("%q.IsValid() = %v", c, errs)
		}
	}

	ok, errs := ColorScheme("sepia").IsValid()
	if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("IsValid(sepia) = %v, %v", ok, errs)
	}
}

func TestColorScheme_GlamourStyle(t *testing.T) {
	t.Parallel()

	tests := map[ColorScheme]string{
		ColorSchemeAuto:  "auto",
		ColorSchemeDark:  "dark",
		ColorSchemeLight: "light",
		ColorSchemeNone:  "notty",
	}
	for scheme, want := range tests {
		if got := scheme.GlamourStyle(); got != want {
			t.Errorf("%q.GlamourStyle() = %q, want %q", scheme, got, want)
		}
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.LogDir = "  "
	cfg.SkipTools = []string{"git", "git"}

	ok, errs := cfg.IsValid()
	if ok || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v", ok, errs)
	}
	var invalid *InvalidConfigError
	if !errors.As(errs[0], &invalid) || len(invalid.FieldErrors) != 2 {
		t.Errorf("want InvalidConfigError with 2 field errors, got %v", errs[0])
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("error should wrap ErrInvalidConfig")
	}
}
