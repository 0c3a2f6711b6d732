// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/stackup-dev/stackup/internal/config"
	"github.com/stackup-dev/stackup/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions are the flags of the provisioning run itself.
type rootOptions struct {
	globalOptions
	build  bool
	strict bool
}

// NewRootCommand creates the `stackup` command tree.
func NewRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "stackup",
		Short: "Provision a development toolchain and build the front end",
		Long: TitleStyle.Render("stackup") + SubtitleStyle.Render(" - provision a development toolchain") + `

stackup detects the host operating system, CI platform and package manager,
then makes sure every tool declared in stackup.cue is installed at the
required version. Every step is logged to a timestamped file and the run
ends with a summary; the exit code is non-zero when any required tool is
missing after validation.

` + SubtitleStyle.Render("Examples:") + `
  stackup                   Provision the tools in ./stackup.cue
  stackup --build           Provision, then compile TypeScript and CSS
  stackup plan              Show what a run would do
  stackup build --watch     Rebuild whenever sources change
  stackup init              Write the default manifest and project layout`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd, app, opts)
		},
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/stackup/config.cue, then ./config.cue)")
	pf.StringVarP(&opts.dir, "dir", "C", "", "project directory (default is the current directory)")
	pf.StringVarP(&opts.manifestPath, "manifest", "m", "", "manifest file (default is <dir>/stackup.cue)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "show debug output")

	rootCmd.Flags().BoolVar(&opts.build, "build", false, "run the build after provisioning")
	rootCmd.Flags().BoolVar(&opts.strict, "strict", false, "stop at the first error instead of attempting every tool")

	rootCmd.AddCommand(
		newBuildCommand(app, &opts.globalOptions),
		newPlanCommand(app, &opts.globalOptions),
		newEnvCommand(app, &opts.globalOptions),
		newReportCommand(app, &opts.globalOptions),
		newInitCommand(app, &opts.globalOptions),
		newConfigCommand(app, &opts.globalOptions),
		newCompletionCommand(),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Main runs the CLI with the given arguments and returns the exit code.
func Main(ctx context.Context, app *App, args []string) int {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		renderIssue(app.stderr, err)
	}
	return int(exitCodeFor(err))
}

// Execute is called by main.main.
func Execute() {
	os.Exit(Main(context.Background(), NewApp(Dependencies{}), os.Args[1:]))
}

// renderIssue prints the catalogued guidance linked to err, if any.
func renderIssue(w io.Writer, err error) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	if ae.HasSuggestions() {
		fmt.Fprintln(w, VerboseStyle.Render(ae.Format(false)))
	}
	iss := ae.Issue()
	if iss == nil {
		return
	}
	out, rerr := iss.Render(config.ColorSchemeAuto.GlamourStyle())
	if rerr != nil {
		return
	}
	fmt.Fprint(w, out)
}
