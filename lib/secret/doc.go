// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds the homeserver access token outside the Go heap.
//
// [Buffer] allocates memory via mmap(MAP_ANONYMOUS), locks it into RAM
// with mlock, and excludes it from core dumps with MADV_DONTDUMP. Close
// zeroes, unlocks, and unmaps it. A Buffer renders as "[REDACTED]" when
// formatted or logged through log/slog, so handing one to a logger by
// mistake does not leak the token.
//
// Constructors:
//
//   - [New] -- zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into protected memory, zeroes the source
//   - [NewFromString] -- convenience for tokens parsed from config files
//   - [ReadFromPath] -- reads a token file (or stdin for "-")
//
// Depends on golang.org/x/sys/unix.
package secret
