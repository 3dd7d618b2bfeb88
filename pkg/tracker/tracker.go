// Package tracker keeps the persistent usage ledger: one row per completed
// translation, with token counts and estimated cost.
package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/traylingo/traylingo/pkg/models"
)

// Tracker records and queries translation usage.
type Tracker interface {
	// Record stores a completed translation.
	Record(ctx context.Context, rec models.TranslationRecord) error
	// Recent returns the most recent translations, newest first.
	Recent(ctx context.Context, limit int) ([]models.TranslationRecord, error)
	// Summary returns aggregated usage grouped by model.
	Summary(ctx context.Context) ([]models.ModelSummary, error)
	// TotalCost returns the total estimated spend since a given time.
	TotalCost(ctx context.Context, since time.Time) (float64, error)
	// Close releases resources.
	Close() error
}

// SQLiteTracker implements Tracker with a SQLite database.
type SQLiteTracker struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS translations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	model TEXT NOT NULL,
	input_tokens INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL,
	cost_usd REAL NOT NULL,
	cached INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_translations_time ON translations(created_at);
CREATE INDEX IF NOT EXISTS idx_translations_model ON translations(model);
`

// New creates a SQLiteTracker and runs auto-migration.
func New(dbPath string) (*SQLiteTracker, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate ledger db: %w", err)
	}

	return &SQLiteTracker{db: db}, nil
}

// Record stores a completed translation.
func (t *SQLiteTracker) Record(ctx context.Context, rec models.TranslationRecord) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO translations (session_id, model, input_tokens, output_tokens, cost_usd, cached, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Model, rec.InputTokens, rec.OutputTokens, rec.CostUSD, rec.Cached, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record translation: %w", err)
	}
	return nil
}

// Recent returns the most recent translations, newest first.
func (t *SQLiteTracker) Recent(ctx context.Context, limit int) ([]models.TranslationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, session_id, model, input_tokens, output_tokens, cost_usd, cached, created_at
		 FROM translations ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	defer rows.Close()

	var records []models.TranslationRecord
	for rows.Next() {
		var r models.TranslationRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Model, &r.InputTokens, &r.OutputTokens, &r.CostUSD, &r.Cached, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Summary returns aggregated usage grouped by model.
func (t *SQLiteTracker) Summary(ctx context.Context) ([]models.ModelSummary, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT model, COUNT(*), SUM(cached), SUM(input_tokens), SUM(output_tokens), SUM(cost_usd)
		 FROM translations GROUP BY model ORDER BY model`,
	)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	defer rows.Close()

	var summaries []models.ModelSummary
	for rows.Next() {
		var s models.ModelSummary
		if err := rows.Scan(&s.Model, &s.RequestCount, &s.CacheHits, &s.InputTokens, &s.OutputTokens, &s.CostUSD); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// TotalCost returns the total estimated spend since a given time.
func (t *SQLiteTracker) TotalCost(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := t.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(cost_usd), 0) FROM translations WHERE created_at >= ?`,
		since,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total cost: %w", err)
	}
	return total, nil
}

// Close closes the underlying database.
func (t *SQLiteTracker) Close() error {
	return t.db.Close()
}
