// SPDX-License-Identifier: MPL-2.0

// Package build runs the static asset pipeline: a TypeScript bundle, a
// compiled stylesheet and an HTML entry point that references both.
//
// The pipeline is four sequential stages (prepare, typescript, css, html).
// Each compile stage is one external process started through a
// procexec.Runner; the driver itself transforms nothing. Any failure aborts
// the remaining stages and is returned as a *StageError. The HTML entry is
// removed at the start of every run and written only after both compilers
// succeeded, so a failed build never leaves an entry point that looks usable.
package build
