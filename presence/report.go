// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package presence

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Reporter writes the human-readable observation lines:
//
//	Got presence 2 event(s)
//	Got presence 1 event(s):   3500ms since last presence
//
// Counts and durations are highlighted when the writer is a color
// terminal; otherwise the lines are plain ASCII.
type Reporter struct {
	out     io.Writer
	count   lipgloss.Style
	elapsed lipgloss.Style
}

// NewReporter returns a Reporter writing to w, detecting the color
// profile from w and the environment. NO_COLOR disables styling.
func NewReporter(w io.Writer) *Reporter {
	profile := termenv.NewOutput(w).EnvColorProfile()
	if os.Getenv("NO_COLOR") != "" {
		profile = termenv.Ascii
	}
	return NewReporterWithProfile(w, profile)
}

// NewReporterWithProfile returns a Reporter with an explicit color
// profile.
func NewReporterWithProfile(w io.Writer, profile termenv.Profile) *Reporter {
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	return &Reporter{
		out:     w,
		count:   renderer.NewStyle().Bold(true),
		elapsed: renderer.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// First reports the first nonzero batch, for which no interval exists.
func (r *Reporter) First(count int) {
	fmt.Fprintf(r.out, "Got presence %s event(s)\n", r.count.Render(fmt.Sprint(count)))
}

// Interval reports a batch and the milliseconds since the previous one.
// The duration is right-aligned in six columns.
func (r *Reporter) Interval(count int, elapsedMillis int64) {
	padded := fmt.Sprintf("%6d", elapsedMillis)
	digits := strings.TrimLeft(padded, " ")
	fmt.Fprintf(r.out, "Got presence %s event(s): %s%sms since last presence\n",
		r.count.Render(fmt.Sprint(count)),
		padded[:len(padded)-len(digits)],
		r.elapsed.Render(digits),
	)
}
