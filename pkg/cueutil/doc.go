// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE decoding flow shared by the tool manifest
// and the user configuration:
//
//  1. Compile the embedded schema
//  2. Compile the user file and unify it with the schema definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Manifest](
//	    schemaBytes,
//	    data,
//	    "#Manifest",
//	    cueutil.WithFilename("stackup.cue"),
//	)
package cueutil
