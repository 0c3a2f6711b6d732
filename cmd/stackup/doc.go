// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the stackup CLI.
//
// The root command provisions the tools declared in the manifest and, with
// --build, runs the front-end build afterwards. Subcommands run the build on
// its own (optionally watching sources), print the detected environment,
// preview a run, render the last run report and scaffold a project.
package cmd
