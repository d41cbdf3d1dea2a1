package repository

import (
	"context"
	"sync"

	"recorder-whisper/internal/app/model"
)

// SerializedStore runs Append calls of the wrapped store one at a time. It
// closes the lost-update window of the CSV backend within one process.
type SerializedStore struct {
	mu    sync.Mutex
	inner HistoryStore
}

// NewSerializedStore wraps inner with an in-process mutex.
func NewSerializedStore(inner HistoryStore) *SerializedStore {
	return &SerializedStore{inner: inner}
}

func (s *SerializedStore) Load(ctx context.Context) ([]model.TranscriptionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Load(ctx)
}

func (s *SerializedStore) Append(ctx context.Context, record model.TranscriptionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Append(ctx, record)
}

func (s *SerializedStore) Close() error {
	return s.inner.Close()
}
