// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package presence

import (
	"fmt"
	"testing"

	"github.com/bureau-foundation/presence-monitor/messaging"
)

func TestExtract(t *testing.T) {
	for _, eventCount := range []int{0, 1, 2, 17} {
		t.Run(fmt.Sprintf("%d events", eventCount), func(t *testing.T) {
			response := &messaging.SyncResponse{NextBatch: "s42"}
			for index := 0; index < eventCount; index++ {
				response.Presence.Events = append(response.Presence.Events, messaging.PresenceEvent{
					Type:   "m.presence",
					Sender: fmt.Sprintf("@user%d:example.org", index),
				})
			}

			count, next := Extract(response)
			if count != eventCount {
				t.Errorf("count = %d, want %d", count, eventCount)
			}
			if next != "s42" {
				t.Errorf("next cursor = %q, want %q", next, "s42")
			}
		})
	}
}
