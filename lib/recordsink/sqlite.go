// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recordsink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/presence-monitor/lib/sqlitepool"
)

const schema = `
CREATE TABLE IF NOT EXISTS presence_intervals (
	id             INTEGER PRIMARY KEY,
	observed_at_ms INTEGER NOT NULL,
	elapsed_ms     INTEGER NOT NULL,
	event_count    INTEGER NOT NULL
);
`

// SQLiteSink stores records as rows of the presence_intervals table.
type SQLiteSink struct {
	pool *sqlitepool.Pool
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteSink, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:        path,
		PoolSize:    1,
		Synchronous: sqlitepool.SynchronousFull,
		Logger:      logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("recordsink: %w", err)
	}
	return &SQLiteSink{pool: pool}, nil
}

// Write inserts one row. With synchronous=FULL the insert's implicit
// transaction is on disk when Write returns.
func (s *SQLiteSink) Write(record Record) error {
	conn, err := s.pool.Take(context.Background())
	if err != nil {
		return fmt.Errorf("recordsink: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT INTO presence_intervals (observed_at_ms, elapsed_ms, event_count) VALUES (?, ?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{record.At.UnixMilli(), record.ElapsedMillis, record.Count},
		})
	if err != nil {
		return fmt.Errorf("recordsink: insert: %w", err)
	}
	return nil
}

// Records returns every stored record in insertion order.
func (s *SQLiteSink) Records(ctx context.Context) ([]Record, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("recordsink: %w", err)
	}
	defer s.pool.Put(conn)

	var records []Record
	err = sqlitex.Execute(conn,
		"SELECT observed_at_ms, elapsed_ms, event_count FROM presence_intervals ORDER BY id",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				records = append(records, Record{
					At:            time.UnixMilli(stmt.ColumnInt64(0)),
					ElapsedMillis: stmt.ColumnInt64(1),
					Count:         stmt.ColumnInt(2),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("recordsink: query: %w", err)
	}
	return records, nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.pool.Close()
}
