// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package monitor runs the presence monitor's /sync loop.
//
// A [Loop] has two states. Bootstrapping issues one /sync without a
// since token and keeps only its next_batch. Polling then repeats
// forever: long-poll with the current cursor, count presence events,
// feed the count and the current time to a presence.Tracker, and adopt
// the response's next_batch as the new cursor. The cursor sent on poll
// N+1 is always the next_batch of response N.
//
// There is no retry. Every failure (transport, protocol, or sink) ends
// Run with an error; only context cancellation is a clean stop. One
// request is in flight at a time and all state lives in the Loop, which
// is driven by a single goroutine.
package monitor
