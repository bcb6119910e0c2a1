// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package recordsink persists presence timing records.
//
// A [Record] is one measured interval between two nonzero presence
// batches. Its canonical text form is
//
//	<epoch_millis> <elapsed_ms> <event_count>\n
//
// and is byte-identical for identical inputs.
//
// A [Sink] accepts records one at a time and must not return until the
// record is durable. Implementations:
//
//   - [WriterSink] -- text lines on any io.Writer; flushes and fsyncs
//     when the writer supports it (tests wrap a bytes.Buffer)
//   - [FileSink] -- a WriterSink over a file opened O_APPEND|O_CREATE,
//     never truncated or rotated
//   - [SQLiteSink] -- rows in a presence_intervals table, committed with
//     synchronous=FULL
//
// [Open] picks FileSink or SQLiteSink from the path's extension.
package recordsink
