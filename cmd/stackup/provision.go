// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/stackup-dev/stackup/internal/build"
	"github.com/stackup-dev/stackup/internal/issue"
	"github.com/stackup-dev/stackup/internal/journal"
	"github.com/stackup-dev/stackup/internal/provision"
	"github.com/stackup-dev/stackup/internal/report"
	"github.com/stackup-dev/stackup/internal/workspace"
	"github.com/stackup-dev/stackup/pkg/types"

	"github.com/spf13/cobra"
)

// runProvision is the root command: detect, lay out, provision, validate,
// optionally build, then persist the report.
func runProvision(cmd *cobra.Command, app *App, opts *rootOptions) error {
	ctx := cmd.Context()

	s, err := app.openSession(ctx, &opts.globalOptions)
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

	env := app.DetectEnvironment()
	rep := report.New(env, app.Now())
	rep.Manifest = s.manifestSource()
	rep.LogFile = j.Path()

	j.Info("stackup " + getVersionString())
	j.Info("Detected environment: " + env.Describe())
	j.Info("Manifest: " + s.manifestSource())
	if s.cfgPath != "" {
		j.Debug("Config: " + s.cfgPath)
	}

	if created, err := workspace.EnsureLayout(s.dir, s.manifest.Layout.Techs); err != nil {
		j.Warn("Could not create project layout: " + err.Error())
	} else if len(created) > 0 {
		j.Info(fmt.Sprintf("Created %d layout directories", len(created)))
		for _, d := range created {
			j.Debug("created " + d)
		}
	}

	orch := provision.New(app.Runner,
		provision.WithStrict(opts.strict || s.cfg.Strict),
		provision.WithSkipTools(s.cfg.SkipTools),
		provision.WithDir(s.dir),
		provision.WithClock(app.Now),
		provision.WithReporter(j),
	)
	log := orch.Run(ctx, s.manifest.Tools, env)
	rep.Record(log)
	j.Summary(log.Summary())

	var buildErr error
	if opts.build {
		buildErr = runBuildStep(cmd, app, s, j, rep, log.Summary())
	}

	rep.FinishedAt = app.Now()
	if path, err := rep.Save(s.logDir()); err != nil {
		j.Warn("Could not write run report: " + err.Error())
	} else {
		j.Debug("Report: " + path)
	}

	if buildErr != nil {
		return buildErr
	}
	if log.Summary().Failed() {
		return &ExitError{
			Code: types.ExitProvisionFailed,
			Err: issue.NewErrorContext().
				WithOperation("provision tools").
				WithResource(j.Path()).
				WithSuggestion("Run 'stackup report' to review the failed steps").
				WithIssue(issue.ProvisioningFailedId).
				Wrap(fmt.Errorf("%d required steps failed", log.Summary().Error)).
				BuildError(),
		}
	}
	return nil
}

// runBuildStep runs the pipeline after provisioning. A run with provisioning
// errors does not build; its compilers may be the missing tools.
func runBuildStep(cmd *cobra.Command, app *App, s *session, j *journal.Journal, rep *report.Report, sum provision.Summary) error {
	if sum.Failed() {
		j.Warn("Build skipped: provisioning reported errors")
		return nil
	}

	j.Step("Building front end")
	artifacts, err := newDriver(app, s, j).RunPipeline(cmd.Context(), s.dir)
	rep.RecordBuild(artifacts, err)
	if err != nil {
		j.Error(err.Error())
		return buildExit(err)
	}
	j.Success(fmt.Sprintf("Build complete: %s, %s, %s", artifacts.Bundle, artifacts.Stylesheet, artifacts.HTML))
	return nil
}

func newDriver(app *App, s *session, j *journal.Journal) *build.Driver {
	b := s.manifest.Build
	return build.NewDriver(app.Runner, build.Config{
		ScriptEntry: b.ScriptEntry,
		Bundle:      b.Bundle,
		StyleEntry:  b.StyleEntry,
		Stylesheet:  b.Stylesheet,
		HTML:        b.HTML,
		Title:       b.Title,
		TSCompiler:  b.TSCompiler,
		CSSCompiler: b.CSSCompiler,
	}, build.WithReporter(j))
}

func buildExit(err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("build").
		WithIssue(issue.BuildFailedId).
		Wrap(err)
	var stageErr *build.StageError
	if errors.As(err, &stageErr) {
		ctx.WithResource(stageErr.Stage.String() + " stage")
		if errors.Is(err, exec.ErrNotFound) {
			ctx.WithIssue(issue.BuildToolMissingId)
		}
	}
	return &ExitError{Code: types.ExitBuildFailed, Err: ctx.BuildError()}
}
