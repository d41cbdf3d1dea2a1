package testutil

import (
	"context"
	"sync"

	"recorder-whisper/internal/app/model"
	"recorder-whisper/internal/app/repository"
)

var _ repository.HistoryStore = (*MockHistoryStore)(nil)

// MockHistoryStore is an in-memory repository.HistoryStore.
type MockHistoryStore struct {
	mu      sync.Mutex
	records []model.TranscriptionRecord

	LoadError   error
	AppendError error
	Closed      bool
}

// NewMockHistoryStore returns a store holding records.
func NewMockHistoryStore(records ...model.TranscriptionRecord) *MockHistoryStore {
	return &MockHistoryStore{records: append([]model.TranscriptionRecord{}, records...)}
}

// WithAppendError makes Append fail.
func (m *MockHistoryStore) WithAppendError(err error) *MockHistoryStore {
	m.AppendError = err
	return m
}

// WithLoadError makes Load fail.
func (m *MockHistoryStore) WithLoadError(err error) *MockHistoryStore {
	m.LoadError = err
	return m
}

func (m *MockHistoryStore) Load(ctx context.Context) ([]model.TranscriptionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	return append([]model.TranscriptionRecord{}, m.records...), nil
}

func (m *MockHistoryStore) Append(ctx context.Context, record model.TranscriptionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendError != nil {
		return m.AppendError
	}
	m.records = append(m.records, record)
	return nil
}

func (m *MockHistoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Len returns the number of stored records.
func (m *MockHistoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
