// Package store provides persistence for the alert history ledger.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"stockpulse/internal/models"
)

// HistoryStore defines persistence for alert history items.
type HistoryStore interface {
	SaveItem(ctx context.Context, item *models.AlertHistoryItem) error
	UpdateNotified(ctx context.Context, id, recipient string) error
	LoadItems(ctx context.Context) ([]*models.AlertHistoryItem, error)
	Close() error
}

// SQLiteStore implements HistoryStore using SQLite. The analysis column
// stores the normalized AnalysisResult as JSON; the ledger is the source
// of truth in memory and the store is write-on-change.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based history store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS alert_history (
		id TEXT PRIMARY KEY,
		date DATETIME NOT NULL,
		analysis TEXT NOT NULL,
		email_sent INTEGER NOT NULL DEFAULT 0,
		email_recipient TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_alert_history_date ON alert_history(date DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveItem inserts a newly appended history item.
func (s *SQLiteStore) SaveItem(ctx context.Context, item *models.AlertHistoryItem) error {
	analysisJSON, err := json.Marshal(item.Analysis)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO alert_history (id, date, analysis, email_sent, email_recipient)
		VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Date, string(analysisJSON), item.EmailSent, item.EmailRecipient)
	if err != nil {
		return fmt.Errorf("inserting history item: %w", err)
	}
	return nil
}

// UpdateNotified records the notification fields for an existing item.
func (s *SQLiteStore) UpdateNotified(ctx context.Context, id, recipient string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE alert_history SET email_sent = 1, email_recipient = ?
		WHERE id = ?`, recipient, id)
	if err != nil {
		return fmt.Errorf("updating history item %s: %w", id, err)
	}
	return nil
}

// LoadItems returns all persisted history items in most-recent-first
// order. Rows whose analysis column cannot be decoded are skipped, so a
// corrupted entry degrades to a smaller ledger instead of failing startup.
func (s *SQLiteStore) LoadItems(ctx context.Context) ([]*models.AlertHistoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, analysis, email_sent, email_recipient
		FROM alert_history ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var items []*models.AlertHistoryItem
	for rows.Next() {
		var (
			item         models.AlertHistoryItem
			analysisJSON string
			recipient    sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Date, &analysisJSON, &item.EmailSent, &recipient); err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(analysisJSON), &item.Analysis); err != nil {
			continue
		}
		item.EmailRecipient = recipient.String
		items = append(items, &item)
	}
	return items, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
