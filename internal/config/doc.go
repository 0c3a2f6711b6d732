// SPDX-License-Identifier: MPL-2.0

// Package config handles stackup configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/stackup on Linux, ~/Library/Application Support/stackup on
// macOS, %APPDATA%\stackup on Windows) or from ./config.cue. The file is
// validated against the embedded #Config schema and merged over defaults.
// Environment variables are not consulted.
package config
