// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/stackup-dev/stackup/internal/hostenv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// newEnvCommand creates the `stackup env` command.
func newEnvCommand(app *App, _ *globalOptions) *cobra.Command {
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print the detected host environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := app.DetectEnvironment()
			if asTOML {
				data, err := toml.Marshal(env)
				if err != nil {
					return fmt.Errorf("encode environment: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			printEnvironment(cmd.OutOrStdout(), env)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asTOML, "toml", false, "print as TOML")
	return cmd
}

func printEnvironment(w io.Writer, env hostenv.Environment) {
	fmt.Fprintln(w, TitleStyle.Render("Environment"))
	rows := [][2]string{
		{"os", env.OS.String()},
		{"arch", env.Arch},
	}
	if env.Distro.ID != "" {
		rows = append(rows,
			[2]string{"distro", env.Distro.DisplayName()},
			[2]string{"family", string(env.Distro.Family)},
		)
	}
	rows = append(rows,
		[2]string{"package manager", env.PackageManager.String()},
		[2]string{"ci", strconv.FormatBool(env.IsCI)},
		[2]string{"ci platform", env.CIPlatform.String()},
		[2]string{"privileged", strconv.FormatBool(env.Privileged)},
	)
	for _, r := range rows {
		fmt.Fprintf(w, "%s %s\n", keyStyle.Render(r[0]+":"), CmdStyle.Render(r[1]))
	}
}
