// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/stackup-dev/stackup/internal/build"
	"github.com/stackup-dev/stackup/internal/journal"
	"github.com/stackup-dev/stackup/internal/watch"

	"github.com/spf13/cobra"
)

// newBuildCommand creates the `stackup build` command.
func newBuildCommand(app *App, gopts *globalOptions) *cobra.Command {
	var (
		watchMode bool
		debounce  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile TypeScript and CSS and write the HTML entry point",
		Long: `Run the build pipeline without provisioning.

Stages run in order and the first failure stops the build:
  prepare     create output directories, remove the previous HTML entry
  typescript  <ts_compiler> <script_entry> --outFile <bundle>
  css         <css_compiler> -i <style_entry> -o <stylesheet>
  html        write <html> referencing the bundle and stylesheet

With --watch the pipeline runs once, then again whenever a source file
changes, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd.Context(), gopts)
			if err != nil {
				return err
			}
			if err := s.loadManifest(); err != nil {
				return err
			}
			j, err := s.openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			driver := newDriver(app, s, j)
			buildErr := buildOnce(cmd.Context(), driver, s.dir, j)
			if !watchMode {
				if buildErr != nil {
					return buildExit(buildErr)
				}
				return nil
			}
			return watchAndBuild(cmd.Context(), driver, s, j, debounce)
		},
	}

	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "rebuild when source files change")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before a rebuild (default 300ms)")

	return cmd
}

func buildOnce(ctx context.Context, driver *build.Driver, dir string, j *journal.Journal) error {
	j.Step("Building front end")
	artifacts, err := driver.RunPipeline(ctx, dir)
	if err != nil {
		j.Error(err.Error())
		return err
	}
	j.Success(fmt.Sprintf("Build complete: %s, %s, %s", artifacts.Bundle, artifacts.Stylesheet, artifacts.HTML))
	return nil
}

func watchAndBuild(ctx context.Context, driver *build.Driver, s *session, j *journal.Journal, debounce time.Duration) error {
	cfg := driver.Config()
	ignore := ignorePatterns(s.dir, cfg.Outputs())
	ignore = append(ignore, filepath.ToSlash(relTo(s.dir, s.logDir()))+"/**")

	w, err := watch.New(watch.Config{
		BaseDir:  s.dir,
		Patterns: sourcePatterns(s.dir, cfg.Sources()),
		Ignore:   ignore,
		Debounce: debounce,
		Logger:   j.Console(),
		Rebuild: func(ctx context.Context, changed []string) error {
			j.Info("Changed: " + strings.Join(changed, ", "))
			return buildOnce(ctx, driver, s.dir, j)
		},
	})
	if err != nil {
		return err
	}
	j.Info("Watching for changes, press Ctrl+C to stop")
	return w.Run(ctx)
}

// sourcePatterns watches the whole directory of each source entry so that
// imported modules and partials trigger rebuilds too.
func sourcePatterns(base string, sources []string) []string {
	var patterns []string
	seen := make(map[string]bool)
	for _, src := range sources {
		dir := filepath.ToSlash(filepath.Dir(relTo(base, src)))
		p := dir + "/**"
		if dir == "." {
			p = filepath.ToSlash(relTo(base, src))
		}
		if !seen[p] {
			seen[p] = true
			patterns = append(patterns, p)
		}
	}
	return patterns
}

func ignorePatterns(base string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.ToSlash(relTo(base, p))
	}
	return out
}

func relTo(base, p string) string {
	if !filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return p
	}
	return rel
}
