// SPDX-License-Identifier: MPL-2.0

// Package issue turns stackup failures into user-facing guidance.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Issue holds the longer Markdown explanation for the
// common failure classes and renders it for the terminal.
package issue
