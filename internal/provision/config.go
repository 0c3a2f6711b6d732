// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"slices"
	"time"

	"github.com/stackup-dev/stackup/internal/pkgmgr"
)

type (
	// Config holds the knobs of one provisioning run.
	Config struct {
		// Strict stops installing after the first error outcome; the
		// remaining tools are recorded as skipped.
		Strict bool

		// SkipTools are tool names recorded as skipped without probing.
		SkipTools []string

		// Dir is the working directory for install scripts.
		Dir string

		// Entries overrides the package manager table. Nil uses
		// pkgmgr.DefaultEntries.
		Entries map[pkgmgr.Key]pkgmgr.Entry

		// Now stamps outcomes. Defaults to time.Now.
		Now func() time.Time

		// Reporter receives progress. Defaults to a no-op.
		Reporter Reporter
	}

	// Option is a functional option for configuring a Config.
	Option func(*Config)
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Now:      time.Now,
		Reporter: nopReporter{},
	}
}

// WithStrict returns an Option that sets Strict on the config.
func WithStrict(strict bool) Option {
	return func(c *Config) {
		c.Strict = strict
	}
}

// WithSkipTools returns an Option that sets SkipTools on the config.
func WithSkipTools(names []string) Option {
	return func(c *Config) {
		c.SkipTools = slices.Clone(names)
	}
}

// WithDir returns an Option that sets the install script working directory.
func WithDir(dir string) Option {
	return func(c *Config) {
		c.Dir = dir
	}
}

// WithEntries returns an Option that replaces the package manager table.
func WithEntries(entries map[pkgmgr.Key]pkgmgr.Entry) Option {
	return func(c *Config) {
		c.Entries = entries
	}
}

// WithClock returns an Option that sets the outcome timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithReporter returns an Option that sets the progress reporter.
func WithReporter(r Reporter) Option {
	return func(c *Config) {
		c.Reporter = r
	}
}

// Apply applies the given options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Reporter == nil {
		c.Reporter = nopReporter{}
	}
}

func (c *Config) skipped(name string) bool {
	return slices.Contains(c.SkipTools, name)
}
