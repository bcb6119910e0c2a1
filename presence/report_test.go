// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package presence

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestReporterPlainLines(t *testing.T) {
	var output bytes.Buffer
	reporter := NewReporterWithProfile(&output, termenv.Ascii)

	reporter.First(2)
	reporter.Interval(1, 3500)
	reporter.Interval(12, 1234567)
	reporter.Interval(3, 0)

	want := "Got presence 2 event(s)\n" +
		"Got presence 1 event(s):   3500ms since last presence\n" +
		"Got presence 12 event(s): 1234567ms since last presence\n" +
		"Got presence 3 event(s):      0ms since last presence\n"
	if output.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", output.String(), want)
	}
}

func TestReporterDetectsNonTerminal(t *testing.T) {
	var output bytes.Buffer
	NewReporter(&output).Interval(1, 42)
	if strings.Contains(output.String(), "\x1b[") {
		t.Errorf("escape sequences written to a non-terminal: %q", output.String())
	}
}

func TestReporterColorProfile(t *testing.T) {
	var output bytes.Buffer
	NewReporterWithProfile(&output, termenv.ANSI).Interval(1, 3500)

	line := output.String()
	if !strings.Contains(line, "\x1b[") {
		t.Fatalf("expected ANSI styling, got %q", line)
	}
	if !strings.Contains(line, "3500") || !strings.HasSuffix(line, "ms since last presence\n") {
		t.Errorf("styled line lost content: %q", line)
	}
}
