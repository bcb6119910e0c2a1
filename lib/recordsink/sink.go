// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recordsink

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Sink persists records. Write returns only after the record is durable
// or has failed.
type Sink interface {
	Write(record Record) error
	Close() error
}

// WriterSink writes records as text lines to an io.Writer. After each
// line it calls Flush() error and then Sync() error on the writer, when
// the writer has them.
type WriterSink struct {
	writer io.Writer
	buffer []byte
}

// NewWriterSink returns a WriterSink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{writer: w}
}

// Write appends one line.
func (s *WriterSink) Write(record Record) error {
	s.buffer = record.AppendText(s.buffer[:0])
	if _, err := s.writer.Write(s.buffer); err != nil {
		return fmt.Errorf("recordsink: write: %w", err)
	}
	if flusher, ok := s.writer.(interface{ Flush() error }); ok {
		if err := flusher.Flush(); err != nil {
			return fmt.Errorf("recordsink: flush: %w", err)
		}
	}
	if syncer, ok := s.writer.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			return fmt.Errorf("recordsink: sync: %w", err)
		}
	}
	return nil
}

// Close closes the writer if it is an io.Closer.
func (s *WriterSink) Close() error {
	if closer, ok := s.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// FileSink appends records to a text file, fsyncing after every line.
type FileSink struct {
	*WriterSink
	path string
}

// OpenFile opens path for appending, creating it with mode 0644 if it
// does not exist. Existing content is preserved.
func OpenFile(path string) (*FileSink, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("recordsink: opening %s: %w", path, err)
	}
	return &FileSink{WriterSink: NewWriterSink(file), path: path}, nil
}

// Path returns the file path.
func (s *FileSink) Path() string {
	return s.path
}

// IsSQLitePath reports whether Open would pick the SQLite sink for path.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Open opens the sink for path: a SQLiteSink for .db, .sqlite, and
// .sqlite3 files, a FileSink for anything else.
func Open(path string, logger *slog.Logger) (Sink, error) {
	if IsSQLitePath(path) {
		return OpenSQLite(path, logger)
	}
	return OpenFile(path)
}
