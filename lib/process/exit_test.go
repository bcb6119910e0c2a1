// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"testing"
)

func TestReport(t *testing.T) {
	var output bytes.Buffer
	Report(&output, errors.New("initial sync: connection refused"))
	want := "error: initial sync: connection refused\n"
	if output.String() != want {
		t.Fatalf("Report wrote %q, want %q", output.String(), want)
	}
}
