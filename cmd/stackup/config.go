// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/stackup-dev/stackup/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `stackup config` command tree.
func newConfigCommand(app *App, gopts *globalOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage stackup configuration",
		Long: `Manage stackup configuration.

Configuration is read from the first file found:
  - Linux: $XDG_CONFIG_HOME/stackup/config.cue (default ~/.config/stackup)
  - macOS: ~/Library/Application Support/stackup/config.cue
  - Windows: %APPDATA%\stackup\config.cue
  - config.cue in the project directory

Keys: manifest, log_dir, skip_tools, strict, ui.verbose, ui.color_scheme.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd.Context(), gopts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			source := s.cfgPath
			if source == "" {
				source = "defaults (no config file found)"
			}
			fmt.Fprintf(out, "%s %s\n\n", SubtitleStyle.Render("// source:"), CmdStyle.Render(source))
			fmt.Fprint(out, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, written, err := config.CreateDefaultConfig("")
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("Created"), CmdStyle.Render(path))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SubtitleStyle.Render("Already exists:"), CmdStyle.Render(path))
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the user configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	return cfgCmd
}
