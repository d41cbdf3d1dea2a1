package repository

import (
	"context"
	"database/sql"
	"fmt"

	"recorder-whisper/internal/app/model"
)

// HistoryTable is the table the SQL backends keep their records in.
const HistoryTable = "transcription_history"

// CommonDB provides the HistoryStore operations shared by the SQL backends
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
}

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB, driverName string) *CommonDB {
	var placeholders PlaceholderFunc

	switch driverName {
	case "postgres":
		placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
	default:
		placeholders = func(n int) string { return "?" }
	}

	return &CommonDB{
		db:           db,
		driverName:   driverName,
		placeholders: placeholders,
	}
}

// Load returns every record ordered by insertion.
func (c *CommonDB) Load(ctx context.Context) ([]model.TranscriptionRecord, error) {
	query := fmt.Sprintf(
		`SELECT audio_url, transcription, created_at FROM %s ORDER BY id`,
		HistoryTable,
	)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	records := make([]model.TranscriptionRecord, 0)
	for rows.Next() {
		var r model.TranscriptionRecord
		if err := rows.Scan(&r.AudioURL, &r.Transcription, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}

// Append inserts a single row.
func (c *CommonDB) Append(ctx context.Context, record model.TranscriptionRecord) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (audio_url, transcription, created_at) VALUES (%s, %s, %s)`,
		HistoryTable, c.placeholders(1), c.placeholders(2), c.placeholders(3),
	)

	if _, err := c.db.ExecContext(ctx, query, record.AudioURL, record.Transcription, record.Timestamp); err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}

	return nil
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (c *CommonDB) DB() *sql.DB {
	return c.db
}
