package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"recorder-whisper/internal/app/repository"
	"recorder-whisper/internal/app/util/files"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS transcription_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	audio_url TEXT NOT NULL,
	transcription TEXT NOT NULL,
	created_at DATETIME NOT NULL
)`

// SQLiteDB is the embedded history store. Each append is a single INSERT.
type SQLiteDB struct {
	*repository.CommonDB
}

// NewSQLiteDB opens (creating if needed) the database at dbPath and ensures
// the history table exists.
func NewSQLiteDB(ctx context.Context, dbPath string) (*SQLiteDB, error) {
	if err := files.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows one writer; a single connection keeps inserts ordered.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteDB{CommonDB: repository.NewCommonDB(db, "sqlite3")}, nil
}
