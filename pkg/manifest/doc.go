// SPDX-License-Identifier: MPL-2.0

// Package manifest loads stackup.cue, the declaration of the tools a project
// needs, how to detect them and how to install them per package manager.
//
// Parsing follows the usual CUE flow: the embedded #Manifest schema is
// unified with the user file and decoded into Go types, then checks that CUE
// cannot express (unique names, parseable install scripts, version syntax)
// run in Go. A Manifest is immutable once loaded.
package manifest
