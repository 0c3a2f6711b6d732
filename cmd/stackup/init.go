// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stackup-dev/stackup/internal/issue"
	"github.com/stackup-dev/stackup/internal/workspace"
	"github.com/stackup-dev/stackup/pkg/manifest"

	"github.com/spf13/cobra"
)

// newInitCommand creates the `stackup init` command.
func newInitCommand(app *App, gopts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default manifest and project layout",
		Long: `Write the built-in manifest to stackup.cue and create the Before/<Tech>
and After/<Tech> directories it lists. Existing directories are left alone;
an existing stackup.cue is only replaced with --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd.Context(), gopts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			m, wrote, err := writeManifest(s.manifestPath, force)
			if err != nil {
				return err
			}
			if wrote {
				fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("Wrote"), CmdStyle.Render(s.manifestPath))
			} else {
				fmt.Fprintf(out, "%s %s\n", SubtitleStyle.Render("Keeping existing"), CmdStyle.Render(s.manifestPath))
			}

			created, err := workspace.EnsureLayout(s.dir, m.Layout.Techs)
			if err != nil {
				return err
			}
			for _, d := range created {
				fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("Created"), CmdStyle.Render(d))
			}
			if len(created) == 0 {
				fmt.Fprintln(out, SubtitleStyle.Render("Project layout already present"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing manifest")
	return cmd
}

// writeManifest writes the default manifest to path and returns it. Without
// force an existing file is parsed and returned instead.
func writeManifest(path string, force bool) (*manifest.Manifest, bool, error) {
	if !force {
		existing, err := manifest.Load(path)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, manifest.ErrNotFound) {
			return nil, false, configExit(manifestError(path, err))
		}
	}

	m := manifest.Default()
	data, err := manifest.Encode(m)
	if err != nil {
		return nil, false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, false, issue.NewErrorContext().
			WithOperation("write manifest").
			WithResource(path).
			WithIssue(issue.PermissionDeniedId).
			Wrap(err).
			BuildError()
	}
	return m, true, nil
}
