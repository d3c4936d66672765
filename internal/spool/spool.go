// Package spool keeps quality-log entries that failed to reach the
// backend. The original workflow printed a warning and dropped the
// entry; spooling lets a later flush deliver it instead.
package spool

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"logidocs/internal/entity"
)

const createTable = `
CREATE TABLE IF NOT EXISTS pending_model_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	document_hash TEXT NOT NULL,
	payload       TEXT NOT NULL,
	attempts      INTEGER NOT NULL DEFAULT 0,
	enqueued_at   TEXT NOT NULL DEFAULT (datetime('now'))
)`

// Spool is a local SQLite queue of undelivered model-log entries.
type Spool struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the spool database at path.
func Open(path string, logger *slog.Logger) (*Spool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open spool: %w", err)
	}
	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init spool schema: %w", err)
	}
	return &Spool{db: db, logger: logger}, nil
}

// Close closes the spool database.
func (s *Spool) Close() error { return s.db.Close() }

// Enqueue stores one entry for a later flush.
func (s *Spool) Enqueue(ctx context.Context, entry entity.ModelLogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode model log entry: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pending_model_log (document_hash, payload) VALUES (?, ?)`,
		entry.DocumentHash, string(payload))
	if err != nil {
		return fmt.Errorf("enqueue model log entry: %w", err)
	}
	s.logger.Info("spool.enqueued", "document_hash", entry.DocumentHash)
	return nil
}

// Pending returns the number of undelivered entries.
func (s *Spool) Pending(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_model_log`).Scan(&n)
	return n, err
}

// Sender delivers one entry to the backend.
type Sender func(ctx context.Context, entry entity.ModelLogEntry) error

// Flush tries to deliver every pending entry. Delivered entries are
// removed; failed ones stay with their attempt count bumped. Entries
// whose stored payload no longer decodes are dropped, since they can
// never be delivered.
func (s *Spool) Flush(ctx context.Context, send Sender) (sent, kept int, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload FROM pending_model_log ORDER BY id`)
	if err != nil {
		return 0, 0, fmt.Errorf("read spool: %w", err)
	}
	type item struct {
		id      int64
		payload string
	}
	var items []item
	for rows.Next() {
		var it item
		if err := rows.Scan(&it.id, &it.payload); err != nil {
			_ = rows.Close()
			return 0, 0, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, 0, err
	}
	_ = rows.Close()

	for _, it := range items {
		var entry entity.ModelLogEntry
		if err := json.Unmarshal([]byte(it.payload), &entry); err != nil {
			s.logger.Warn("spool.drop_undecodable", "id", it.id, "error", err)
			_, _ = s.db.ExecContext(ctx, `DELETE FROM pending_model_log WHERE id = ?`, it.id)
			continue
		}
		if err := send(ctx, entry); err != nil {
			s.logger.Warn("spool.send_failed", "id", it.id,
				"document_hash", entry.DocumentHash, "error", err)
			_, _ = s.db.ExecContext(ctx,
				`UPDATE pending_model_log SET attempts = attempts + 1 WHERE id = ?`, it.id)
			kept++
			continue
		}
		if _, err := s.db.ExecContext(ctx, `DELETE FROM pending_model_log WHERE id = ?`, it.id); err != nil {
			return sent, kept, fmt.Errorf("dequeue entry %d: %w", it.id, err)
		}
		sent++
	}
	if sent > 0 || kept > 0 {
		s.logger.Info("spool.flushed", "sent", sent, "kept", kept)
	}
	return sent, kept, nil
}
