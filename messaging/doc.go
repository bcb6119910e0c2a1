// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the slice of the Matrix client-server API the
// presence monitor needs: long-polling /sync.
//
// [Client] holds the homeserver URL and HTTP transport. [Session] adds a
// pre-provisioned access token held in mmap-backed secret.Buffer memory;
// callers must call Session.Close to release it. The token travels as
// the access_token query parameter of the r0 API, so transport errors
// have it redacted before they are returned.
//
// All API errors are returned as [*MatrixError] with the standard Matrix
// error code (M_FORBIDDEN, M_UNKNOWN_TOKEN, etc.) and HTTP status code.
// [IsMatrixError] tests for a specific error code. A /sync response that
// decodes but carries no next_batch yields [ErrMissingNextBatch].
//
// Request URLs are built by string concatenation rather than url.URL to
// avoid re-encoding the configured base path.
package messaging
