// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/stackup-dev/stackup/internal/issue"
	"github.com/stackup-dev/stackup/internal/report"

	"github.com/spf13/cobra"
)

// newReportCommand creates the `stackup report` command.
func newReportCommand(app *App, gopts *globalOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the result of the last run",
		Long: `Render the report of the last provisioning run, read from last-run.toml
in the log directory. With --raw the TOML is printed unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd.Context(), gopts)
			if err != nil {
				return err
			}
			rep, err := report.Load(s.logDir())
			if err != nil {
				ctx := issue.NewErrorContext().
					WithOperation("read run report").
					WithResource(s.logDir()).
					Wrap(err)
				if errors.Is(err, report.ErrNoReport) {
					ctx.WithIssue(issue.ReportNotFoundId).
						WithSuggestion("Run 'stackup' first to produce a report")
				}
				return configExit(ctx.BuildError())
			}
			if raw {
				data, err := rep.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return renderMarkdown(cmd.OutOrStdout(), rep.Markdown(), s.cfg.UI.ColorScheme)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the TOML report")
	return cmd
}
