// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package presence

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/muesli/termenv"

	"github.com/bureau-foundation/presence-monitor/lib/recordsink"
)

// TrackerConfig configures a Tracker.
type TrackerConfig struct {
	// Sink receives one record per interval. Nil disables persistence.
	Sink recordsink.Sink

	// Reporter prints observation lines. If nil, lines are discarded.
	Reporter *Reporter

	// Logger receives warnings (negative intervals). If nil,
	// slog.Default() is used.
	Logger *slog.Logger
}

// Tracker holds the time of the last nonzero presence batch.
type Tracker struct {
	last     time.Time
	hasLast  bool
	sink     recordsink.Sink
	reporter *Reporter
	logger   *slog.Logger
}

// NewTracker returns a Tracker with no previous observation.
func NewTracker(config TrackerConfig) *Tracker {
	reporter := config.Reporter
	if reporter == nil {
		reporter = NewReporterWithProfile(io.Discard, termenv.Ascii)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		sink:     config.Sink,
		reporter: reporter,
		logger:   logger,
	}
}

// Last returns the time of the last nonzero observation, and false if
// there has been none.
func (t *Tracker) Last() (time.Time, bool) {
	return t.last, t.hasLast
}

// Update feeds one observation. A zero count is a no-op. The first
// nonzero count only records now. Every later nonzero count reports
// the interval since the previous one and persists it; a sink failure
// is returned and leaves the previous observation time in place.
//
// Intervals are computed from wall-clock readings, so a clock stepped
// backward yields a negative interval. It is reported and persisted
// as measured, with a warning.
func (t *Tracker) Update(count int, now time.Time) error {
	if count <= 0 {
		return nil
	}

	if !t.hasLast {
		t.reporter.First(count)
		t.last, t.hasLast = now, true
		return nil
	}

	elapsed := now.Round(0).Sub(t.last.Round(0)).Milliseconds()
	if elapsed < 0 {
		t.logger.Warn("presence interval is negative; wall clock moved backward",
			"elapsed_ms", elapsed,
			"previous", t.last,
			"now", now,
		)
	}
	t.reporter.Interval(count, elapsed)

	if t.sink != nil {
		record := recordsink.Record{At: now, ElapsedMillis: elapsed, Count: count}
		if err := t.sink.Write(record); err != nil {
			return fmt.Errorf("presence: persisting interval: %w", err)
		}
	}

	t.last = now
	return nil
}
