// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// bureau-presence-monitor measures how often a Matrix homeserver
// delivers presence updates to a client.
//
// It long-polls /_matrix/client/r0/sync with the access token from the
// config file, threads each response's next_batch into the next
// request, and for every response carrying presence events prints the
// number of events and the milliseconds since the previous such
// response. With an output path, every interval is also appended to
// that file as "<epoch_ms> <elapsed_ms> <count>", or inserted into a
// SQLite database when the path ends in .db, .sqlite, or .sqlite3.
//
// The monitor runs until interrupted (SIGINT/SIGTERM, exit 0) or until
// any request or write fails (exit 1). Failures are not retried.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/presence-monitor/lib/clock"
	"github.com/bureau-foundation/presence-monitor/lib/config"
	"github.com/bureau-foundation/presence-monitor/lib/process"
	"github.com/bureau-foundation/presence-monitor/lib/recordsink"
	"github.com/bureau-foundation/presence-monitor/lib/version"
	"github.com/bureau-foundation/presence-monitor/messaging"
	"github.com/bureau-foundation/presence-monitor/monitor"
	"github.com/bureau-foundation/presence-monitor/presence"
)

const binaryName = "bureau-presence-monitor"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		process.Fatal(err)
	}
}

// errUsage is returned when the command line is incomplete. Help has
// already been printed.
var errUsage = errors.New("a config path is required")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		logLevel     string
		countInitial bool
	)

	flagSet := pflag.NewFlagSet(binaryName, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flagSet.BoolVar(&countInitial, "count-initial", false, "count presence events delivered by the initial sync")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Usage = func() { printHelp(stderr, flagSet) }

	// Handle --version before flag parsing to match other Bureau binaries.
	if len(args) > 0 && args[0] == "--version" {
		version.Fprint(stdout, binaryName)
		return nil
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stdout, flagSet)
		return nil
	}

	positional := flagSet.Args()
	switch {
	case len(positional) == 0:
		printHelp(stderr, flagSet)
		return errUsage
	case len(positional) > 2:
		return fmt.Errorf("unexpected argument: %s", positional[2])
	}
	configPath := positional[0]
	var outputPath string
	if len(positional) == 2 {
		outputPath = positional[1]
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	logger := newLogger(stderr, level)
	logger.Info("starting", "binary", binaryName, "build", version.LogValue())

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	logger.Info("loaded config", "path", configPath, "config", cfg)

	var sink recordsink.Sink
	if outputPath != "" {
		sink, err = recordsink.Open(outputPath, logger)
		if err != nil {
			return err
		}
		defer sink.Close()
		logger.Info("recording intervals", "output", outputPath, "sqlite", recordsink.IsSQLitePath(outputPath))
	}

	client, err := messaging.NewClient(messaging.ClientConfig{
		HomeserverURL: cfg.ServerURL,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	token, err := cfg.Token()
	if err != nil {
		return err
	}
	session := client.SessionFromBuffer(token)
	defer session.Close()

	tracker := presence.NewTracker(presence.TrackerConfig{
		Sink:     sink,
		Reporter: presence.NewReporter(stdout),
		Logger:   logger,
	})
	loop, err := monitor.New(monitor.Config{
		Syncer:            session,
		Tracker:           tracker,
		Clock:             clock.Real(),
		Logger:            logger,
		CountInitialBatch: countInitial,
	})
	if err != nil {
		return err
	}

	err = loop.Run(ctx)
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		logger.Info("shutting down", "cursor", loop.Cursor())
		return nil
	}
	if messaging.IsTokenRejected(err) {
		return fmt.Errorf("%w (check access_token in %s)", err, configPath)
	}
	return err
}

// newLogger returns a text logger when w is a terminal and a JSON
// logger otherwise.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Matrix presence frequency monitor.

Long-polls the homeserver's /sync endpoint and reports the time between
successive batches of presence events. If OUTPUT is given, each interval
is appended to it as "<epoch_ms> <elapsed_ms> <count>"; an OUTPUT ending
in .db, .sqlite, or .sqlite3 is written as a SQLite database instead.

CONFIG is a TOML, YAML (.yaml, .yml), or JSONC (.json, .jsonc) file:

    server_url = "https://matrix.example.org"
    access_token = "syt_..."

Usage:
  %s [flags] CONFIG [OUTPUT]

Flags:
%s`, binaryName, flagSet.FlagUsages())
}
