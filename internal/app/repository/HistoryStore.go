package repository

import (
	"context"

	"recorder-whisper/internal/app/model"
)

// HistoryStore persists transcription records. Load returns records in
// append order; a store with nothing persisted yet returns an empty slice.
type HistoryStore interface {
	Load(ctx context.Context) ([]model.TranscriptionRecord, error)
	Append(ctx context.Context, record model.TranscriptionRecord) error
	Close() error
}
