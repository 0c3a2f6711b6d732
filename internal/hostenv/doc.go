// SPDX-License-Identifier: MPL-2.0

// Package hostenv takes the one-time snapshot of the host that every
// provisioning step reads: operating system and distro, CPU architecture,
// CI platform, privilege level and the resolved package manager.
//
// Detection never fails. Anything that cannot be determined falls back to an
// "unknown" or "none" value so later steps can still try generic strategies.
// The only environment variables consulted are the CI indicators.
package hostenv
