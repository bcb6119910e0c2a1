// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the binary entrypoint error handler: the one
// place raw stderr output is allowed before (or after) the structured
// logger exists.
package process

import (
	"fmt"
	"io"
	"os"
)

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors returned from run().
func Fatal(err error) {
	Report(os.Stderr, err)
	os.Exit(1)
}

// Report writes the "error: err" line Fatal prints, without exiting.
func Report(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
