// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bureau-foundation/presence-monitor/lib/secret"
)

// syncPath is the r0 client-server /sync endpoint.
const syncPath = "/_matrix/client/r0/sync"

// Session is an authenticated Matrix session: a Client plus an access
// token in protected memory. A Session holds no per-request state, so a
// single Session serves every poll of the monitor.
type Session struct {
	client      *Client
	accessToken *secret.Buffer
}

// Close releases the protected token memory. Idempotent.
func (s *Session) Close() error {
	if s.accessToken == nil {
		return nil
	}
	return s.accessToken.Close()
}

// Sync performs a /sync request with the homeserver.
// For the initial sync, leave options.Since empty.
// For long-polling, set options.Timeout to the desired wait in
// milliseconds and SetTimeout to true.
//
// Sync blocks until the homeserver responds or ctx is done. The decoded
// response always carries a non-empty NextBatch; a response without one
// fails with ErrMissingNextBatch.
func (s *Session) Sync(ctx context.Context, options SyncOptions) (*SyncResponse, error) {
	query := url.Values{}
	if options.Since != "" {
		query.Set("since", options.Since)
	}
	if options.SetTimeout {
		query.Set("timeout", strconv.Itoa(options.Timeout))
	}

	body, err := s.client.doRequest(ctx, syncPath, s.accessToken, query)
	if err != nil {
		return nil, fmt.Errorf("messaging: sync failed: %w", err)
	}

	var response SyncResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse sync response: %w", err)
	}
	if response.NextBatch == "" {
		return nil, ErrMissingNextBatch
	}

	s.client.logger.Debug("sync completed",
		"since", options.Since,
		"next_batch", response.NextBatch,
		"presence_events", len(response.Presence.Events),
	)
	return &response, nil
}
