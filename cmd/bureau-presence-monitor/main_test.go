// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func writeConfig(t *testing.T, serverURL, token string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "monitor.toml")
	content := fmt.Sprintf("server_url = %q\naccess_token = %q\n", serverURL, token)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunWithoutArgumentsPrintsHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), nil, &stdout, &stderr)
	if !errors.Is(err, errUsage) {
		t.Fatalf("run() error = %v, want errUsage", err)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Errorf("stderr missing usage:\n%s", stderr.String())
	}
}

func TestRunHelp(t *testing.T) {
	for _, flag := range []string{"--help", "-h"} {
		t.Run(flag, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(context.Background(), []string{flag}, &stdout, &stderr); err != nil {
				t.Fatalf("run(%s) = %v", flag, err)
			}
			if !strings.Contains(stdout.String(), "--count-initial") {
				t.Errorf("help does not list flags:\n%s", stdout.String())
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"--version"}, &stdout, &stderr); err != nil {
		t.Fatalf("run(--version) = %v", err)
	}
	if !strings.HasPrefix(stdout.String(), binaryName+" ") {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestRunRejectsBadInvocations(t *testing.T) {
	configPath := writeConfig(t, "https://matrix.example.org", "tok")
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus", configPath}},
		{"too many arguments", []string{configPath, "out.log", "extra"}},
		{"bad log level", []string{"--log-level", "loud", configPath}},
		{"missing config", []string{filepath.Join(t.TempDir(), "absent.toml")}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(context.Background(), test.args, &stdout, &stderr); err == nil {
				t.Fatal("run() succeeded, want error")
			}
		})
	}
}

// presenceServer scripts a homeserver: the initial sync returns c1,
// the next two polls return two and one presence events, and the
// fourth request cancels the monitor.
type presenceServer struct {
	mu       sync.Mutex
	requests []string
	cancel   context.CancelFunc
}

func (s *presenceServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.RawQuery)
	index := len(s.requests)
	s.mu.Unlock()

	if r.URL.Path != "/_matrix/client/r0/sync" || r.URL.Query().Get("access_token") != "secret-token" {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errcode":"M_UNKNOWN_TOKEN","error":"bad token"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch index {
	case 1:
		fmt.Fprint(w, `{"next_batch":"c1"}`)
	case 2:
		fmt.Fprint(w, `{"next_batch":"c2","presence":{"events":[
			{"type":"m.presence","sender":"@a:x","content":{"presence":"online"}},
			{"type":"m.presence","sender":"@b:x","content":{"presence":"offline"}}]}}`)
	case 3:
		fmt.Fprint(w, `{"next_batch":"c3","presence":{"events":[
			{"type":"m.presence","sender":"@a:x","content":{"presence":"unavailable"}}]}}`)
	default:
		s.cancel()
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}
}

func TestRunEndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := &presenceServer{cancel: cancel}
	server := httptest.NewServer(handler)
	defer server.Close()

	configPath := writeConfig(t, server.URL, "secret-token")
	outputPath := filepath.Join(t.TempDir(), "presence.log")

	var stdout, stderr bytes.Buffer
	if err := run(ctx, []string{configPath, outputPath}, &stdout, &stderr); err != nil {
		t.Fatalf("run() = %v\nstderr:\n%s", err, stderr.String())
	}

	console := stdout.String()
	if !strings.Contains(console, "Got presence 2 event(s)\n") {
		t.Errorf("console missing first observation:\n%s", console)
	}
	if !strings.Contains(console, "Got presence 1 event(s): ") || !strings.Contains(console, "ms since last presence\n") {
		t.Errorf("console missing interval line:\n%s", console)
	}

	output, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(output), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("output has %d lines, want 1: %q", len(lines), output)
	}
	fields := strings.Fields(lines[0])
	if len(fields) != 3 || fields[2] != "1" {
		t.Errorf("output line = %q, want \"<epoch_ms> <elapsed_ms> 1\"", lines[0])
	}

	handler.mu.Lock()
	requests := handler.requests
	handler.mu.Unlock()
	if len(requests) < 4 {
		t.Fatalf("server saw %d requests, want 4", len(requests))
	}
	if strings.Contains(requests[0], "since=") {
		t.Errorf("initial sync carried since: %s", requests[0])
	}
	for index, want := range []string{"since=c1", "since=c2", "since=c3"} {
		if !strings.Contains(requests[index+1], want) {
			t.Errorf("request %d query %q missing %s", index+2, requests[index+1], want)
		}
	}

	if strings.Contains(stderr.String(), "secret-token") {
		t.Errorf("access token leaked into logs:\n%s", stderr.String())
	}
}

func TestRunFailsOnRejectedToken(t *testing.T) {
	handler := &presenceServer{cancel: func() {}}
	server := httptest.NewServer(handler)
	defer server.Close()

	configPath := writeConfig(t, server.URL, "wrong-token")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{configPath}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "M_UNKNOWN_TOKEN") {
		t.Fatalf("run() error = %v, want M_UNKNOWN_TOKEN", err)
	}
	if !strings.Contains(err.Error(), "check access_token in "+configPath) {
		t.Errorf("error lacks config hint: %v", err)
	}
	if strings.Contains(err.Error(), "wrong-token") {
		t.Errorf("error leaks the access token: %v", err)
	}
}
