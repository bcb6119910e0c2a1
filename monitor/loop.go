// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/presence-monitor/lib/clock"
	"github.com/bureau-foundation/presence-monitor/messaging"
	"github.com/bureau-foundation/presence-monitor/presence"
)

// DefaultTimeout is the long-poll timeout, in milliseconds, requested
// from the homeserver on every /sync.
const DefaultTimeout = 30000

// Syncer performs one /sync request. *messaging.Session implements it.
type Syncer interface {
	Sync(ctx context.Context, options messaging.SyncOptions) (*messaging.SyncResponse, error)
}

var _ Syncer = (*messaging.Session)(nil)

// Config configures a Loop.
type Config struct {
	// Syncer issues the /sync requests. Required.
	Syncer Syncer

	// Tracker receives one observation per polled response. Required.
	Tracker *presence.Tracker

	// Clock timestamps observations. If nil, clock.Real() is used.
	Clock clock.Clock

	// Logger receives lifecycle messages. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Timeout is the long-poll timeout in milliseconds. If zero,
	// DefaultTimeout is used.
	Timeout int

	// CountInitialBatch feeds the presence events of the bootstrap
	// response to the tracker. By default they are discarded and only
	// the bootstrap's next_batch is kept.
	CountInitialBatch bool
}

// Loop owns the sync cursor and drives Syncer → presence.Extract →
// presence.Tracker.
type Loop struct {
	syncer            Syncer
	tracker           *presence.Tracker
	clock             clock.Clock
	logger            *slog.Logger
	timeout           int
	countInitialBatch bool

	cursor string
}

// New validates config and returns a Loop in the Bootstrapping state.
func New(config Config) (*Loop, error) {
	if config.Syncer == nil {
		return nil, errors.New("monitor: Syncer is required")
	}
	if config.Tracker == nil {
		return nil, errors.New("monitor: Tracker is required")
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Loop{
		syncer:            config.Syncer,
		tracker:           config.Tracker,
		clock:             clk,
		logger:            logger,
		timeout:           timeout,
		countInitialBatch: config.CountInitialBatch,
	}, nil
}

// Cursor returns the since token the next poll will send. Empty until
// the bootstrap sync has succeeded.
func (l *Loop) Cursor() string {
	return l.cursor
}

// Run bootstraps and then polls until an error occurs or ctx is done.
// It never returns nil. When ctx is cancelled the returned error wraps
// ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	if l.cursor == "" {
		if err := l.bootstrap(ctx); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("monitor: stopped: %w", err)
		}
		if err := l.Poll(ctx); err != nil {
			return err
		}
	}
}

// bootstrap performs the initial sync without a since token.
func (l *Loop) bootstrap(ctx context.Context) error {
	response, err := l.syncer.Sync(ctx, messaging.SyncOptions{
		Timeout:    l.timeout,
		SetTimeout: true,
	})
	if err != nil {
		return fmt.Errorf("monitor: initial sync: %w", err)
	}

	count, next := presence.Extract(response)
	if l.countInitialBatch {
		if err := l.tracker.Update(count, l.clock.Now()); err != nil {
			return fmt.Errorf("monitor: initial sync: %w", err)
		}
	} else if count > 0 {
		l.logger.Debug("discarding presence events from initial sync", "count", count)
	}
	l.cursor = next

	l.logger.Info("monitor started", "next_batch", next)
	return nil
}

// Poll performs one incremental sync with the current cursor, feeds the
// observation to the tracker, and advances the cursor. The cursor only
// advances when both the sync and the tracker update succeed.
func (l *Loop) Poll(ctx context.Context) error {
	if l.cursor == "" {
		return errors.New("monitor: poll before initial sync")
	}

	response, err := l.syncer.Sync(ctx, messaging.SyncOptions{
		Since:      l.cursor,
		Timeout:    l.timeout,
		SetTimeout: true,
	})
	if err != nil {
		return fmt.Errorf("monitor: sync since %s: %w", l.cursor, err)
	}

	count, next := presence.Extract(response)
	if err := l.tracker.Update(count, l.clock.Now()); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	l.cursor = next
	return nil
}
