// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the hot paths of a provisioning run,
// used to collect a PGO profile:
//   - CUE manifest and config parsing with schema validation
//   - tool probing, version comparison and planning
//   - a full RunAll over the built-in manifest against a fake host
//   - run report encoding
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -run '^$' -bench . -cpuprofile default.pgo
package benchmark
