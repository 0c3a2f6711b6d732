// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes GOOS names and small helpers for code that
// has to behave differently per host operating system.
package platform
