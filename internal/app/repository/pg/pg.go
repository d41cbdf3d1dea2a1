package pg

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"recorder-whisper/internal/app/repository"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS transcription_history (
	id BIGSERIAL PRIMARY KEY,
	audio_url TEXT NOT NULL,
	transcription TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// PostgresDB keeps the history in PostgreSQL.
type PostgresDB struct {
	*repository.CommonDB
}

// NewPostgresDB opens a connection pool for dsn. sql.Open does not dial, so
// connection errors show up on first use.
func NewPostgresDB(dsn string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewPostgresDBWithDB(db), nil
}

// NewPostgresDBWithDB wraps an existing connection.
func NewPostgresDBWithDB(db *sql.DB) *PostgresDB {
	return &PostgresDB{CommonDB: repository.NewCommonDB(db, "postgres")}
}

// EnsureSchema creates the history table when missing.
func (p *PostgresDB) EnsureSchema(ctx context.Context) error {
	if _, err := p.DB().ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}
