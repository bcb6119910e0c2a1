// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFromPath_File(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "plain value", content: "syt_token", expected: "syt_token"},
		{name: "trailing newline", content: "syt_token\n", expected: "syt_token"},
		{name: "surrounding whitespace", content: "  syt_token \n", expected: "syt_token"},
	}

	for index, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(tempDir, "token-"+string(rune('a'+index)))
			if err := os.WriteFile(path, []byte(test.content), 0600); err != nil {
				t.Fatalf("writing token file: %v", err)
			}

			buffer, err := ReadFromPath(path)
			if err != nil {
				t.Fatalf("ReadFromPath: %v", err)
			}
			defer buffer.Close()

			if buffer.String() != test.expected {
				t.Errorf("String() = %q, want %q", buffer.String(), test.expected)
			}
		})
	}
}

func TestReadFromPath_FileNotFound(t *testing.T) {
	if _, err := ReadFromPath(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadFromPath_WhitespaceOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  \n\t\n"), 0600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}
	if _, err := ReadFromPath(path); err == nil {
		t.Fatal("expected error for whitespace-only file")
	}
}

func TestReadFromPath_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{name: "two lines", content: []byte("syt_first\nsyt_second\n")},
		{name: "inner space", content: []byte("syt first")},
		{name: "oversized", content: bytes.Repeat([]byte("a"), maxTokenFileSize+1)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token")
			if err := os.WriteFile(path, test.content, 0600); err != nil {
				t.Fatalf("writing token file: %v", err)
			}
			buffer, err := ReadFromPath(path)
			if err == nil {
				buffer.Close()
				t.Fatal("ReadFromPath succeeded, want error")
			}
			if strings.Contains(err.Error(), "syt_") {
				t.Errorf("error echoes token content: %v", err)
			}
		})
	}
}
