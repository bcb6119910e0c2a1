// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package presence

import "github.com/bureau-foundation/presence-monitor/messaging"

// Extract returns the number of presence events in response and the
// cursor to send as since on the next poll.
func Extract(response *messaging.SyncResponse) (count int, nextCursor string) {
	return len(response.Presence.Events), response.NextBatch
}
