// SPDX-License-Identifier: MPL-2.0

// Package procexec is the single seam between stackup and external
// processes. Every installer, version probe and compiler invocation goes
// through a Runner, so tests can substitute a scripted fake and never touch
// the host.
//
// Install scripts declared in the manifest run inside the embedded
// mvdan.cc/sh interpreter (see Shell). Builtins such as cd, export and test
// are handled by the interpreter; every external command the script starts
// is routed back through the Runner.
package procexec
