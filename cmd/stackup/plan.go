// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/stackup-dev/stackup/internal/hostenv"
	"github.com/stackup-dev/stackup/internal/provision"

	"github.com/spf13/cobra"
)

// newPlanCommand creates the `stackup plan` command.
func newPlanCommand(app *App, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show what a provisioning run would do",
		Long: `Probe every tool in the manifest and show the action a run would take:
satisfied, install (with the command), manual, or skip. Nothing is installed
and no log file is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd.Context(), gopts)
			if err != nil {
				return err
			}
			if err := s.loadManifest(); err != nil {
				return err
			}
			env := app.DetectEnvironment()
			orch := provision.New(app.Runner,
				provision.WithSkipTools(s.cfg.SkipTools),
				provision.WithDir(s.dir),
			)
			steps := orch.Plan(cmd.Context(), s.manifest.Tools, env)
			return renderMarkdown(cmd.OutOrStdout(), planMarkdown(env, s.manifestSource(), steps), s.cfg.UI.ColorScheme)
		},
	}
}

func planMarkdown(env hostenv.Environment, source string, steps []provision.PlannedStep) string {
	var b strings.Builder
	b.WriteString("# Provisioning plan\n\n")
	fmt.Fprintf(&b, "- **Host:** %s\n- **Manifest:** %s\n\n", env.Describe(), source)
	b.WriteString("| Tool | Required | Action | Via | Detail |\n|---|---|---|---|---|\n")

	counts := make(map[provision.PlanAction]int)
	for _, st := range steps {
		counts[st.Action]++
		req := "no"
		if st.Required {
			req = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", st.Tool, req, st.Action, mdCell(st.Via), mdCell(st.Detail))
	}
	fmt.Fprintf(&b, "\n%d satisfied, %d to install, %d manual, %d skipped\n",
		counts[provision.PlanSatisfied], counts[provision.PlanInstall], counts[provision.PlanManual], counts[provision.PlanSkip])
	return b.String()
}
