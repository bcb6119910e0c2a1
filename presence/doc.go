// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package presence measures how often presence updates arrive.
//
// [Extract] reduces a /sync response to the two values the monitor
// needs: the number of m.presence events and the next cursor.
//
// [Tracker] is the stateful half. It remembers when the last nonzero
// batch was observed and, for every later nonzero batch, reports the
// elapsed milliseconds on the console through a [Reporter] and writes a
// recordsink.Record to the configured sink. Batches with zero events
// leave it untouched. A Tracker is owned by one goroutine; it does no
// locking.
package presence
