// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
	// ColorSchemeNone disables colour on the console.
	ColorSchemeNone ColorScheme = "none"

	// DefaultLogDir is the log directory, relative to the project directory.
	DefaultLogDir = ".stackup/logs"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects field errors from Config.IsValid.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the user configuration.
	Config struct {
		// Manifest overrides the manifest path.
		Manifest string `json:"manifest" mapstructure:"manifest"`
		// LogDir is where run logs and last-run.toml are written.
		LogDir string `json:"log_dir" mapstructure:"log_dir"`
		// SkipTools lists tool names that are never provisioned.
		SkipTools []string `json:"skip_tools" mapstructure:"skip_tools"`
		// Strict stops provisioning at the first error.
		Strict bool     `json:"strict" mapstructure:"strict"`
		UI     UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures console output.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogDir:    DefaultLogDir,
		SkipTools: []string{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// ColorSchemes returns every recognized ColorScheme.
func ColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight, ColorSchemeNone}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes,
// and a list of validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	for _, s := range ColorSchemes() {
		if c == s {
			return true, nil
		}
	}
	return false, []error{&InvalidColorSchemeError{Value: c}}
}

// GlamourStyle maps the scheme to a glamour standard style name.
func (c ColorScheme) GlamourStyle() string {
	switch c {
	case ColorSchemeDark, ColorSchemeLight:
		return string(c)
	case ColorSchemeNone:
		return "notty"
	default:
		return "auto"
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light, none)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid checks what the CUE schema cannot: the log directory is not
// blank and skip_tools has no duplicates.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.LogDir) == "" {
		errs = append(errs, errors.New("log_dir must not be empty"))
	}
	seen := make(map[string]bool, len(c.SkipTools))
	for _, name := range c.SkipTools {
		if seen[name] {
			errs = append(errs, fmt.Errorf("skip_tools: duplicate entry %q", name))
		}
		seen[name] = true
	}
	if ok, fieldErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}
