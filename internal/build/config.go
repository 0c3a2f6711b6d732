// SPDX-License-Identifier: MPL-2.0

package build

import "path/filepath"

// Config holds pipeline paths, relative to the working directory unless
// absolute, and compiler commands. Compiler commands may include leading
// arguments, e.g. "npx tsc".
type Config struct {
	ScriptEntry string
	Bundle      string
	StyleEntry  string
	Stylesheet  string
	HTML        string
	Title       string
	TSCompiler  string
	CSSCompiler string
}

// DefaultConfig returns the standard project layout.
func DefaultConfig() Config {
	return Config{
		ScriptEntry: filepath.Join("src", "main.ts"),
		Bundle:      filepath.Join("dist", "bundle.js"),
		StyleEntry:  filepath.Join("src", "styles.css"),
		Stylesheet:  filepath.Join("dist", "styles.css"),
		HTML:        filepath.Join("dist", "index.html"),
		Title:       "stackup",
		TSCompiler:  "tsc",
		CSSCompiler: "tailwindcss",
	}
}

// WithDefaults fills empty fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	for _, f := range []struct{ dst, def *string }{
		{&c.ScriptEntry, &d.ScriptEntry},
		{&c.Bundle, &d.Bundle},
		{&c.StyleEntry, &d.StyleEntry},
		{&c.Stylesheet, &d.Stylesheet},
		{&c.HTML, &d.HTML},
		{&c.Title, &d.Title},
		{&c.TSCompiler, &d.TSCompiler},
		{&c.CSSCompiler, &d.CSSCompiler},
	} {
		if *f.dst == "" {
			*f.dst = *f.def
		}
	}
	return c
}

// Sources returns the input files the pipeline reads.
func (c Config) Sources() []string {
	return []string{c.ScriptEntry, c.StyleEntry}
}

// Outputs returns the files the pipeline writes.
func (c Config) Outputs() []string {
	return []string{c.Bundle, c.Stylesheet, c.HTML}
}
