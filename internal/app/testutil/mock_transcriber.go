package testutil

import (
	"context"
	"os"
	"sync"
	"time"

	"recorder-whisper/internal/app/api"
)

var _ api.Transcriber = (*MockTranscriber)(nil)

// MockTranscriber is a configurable api.Transcriber for pipeline tests.
type MockTranscriber struct {
	mu sync.Mutex

	DefaultResponse string
	DefaultError    error
	Latency         time.Duration

	CallHistory []TranscriptionCall
}

// TranscriptionCall records one Transcript call.
type TranscriptionCall struct {
	InputFilePath string
	// FileExisted is whether the path existed when the call was made.
	FileExisted bool
	Timestamp   time.Time
}

// NewMockTranscriber creates a new MockTranscriber with a default response.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{DefaultResponse: "This is a mock transcription result."}
}

// WithDefaultResponse sets the text returned by every call.
func (m *MockTranscriber) WithDefaultResponse(response string) *MockTranscriber {
	m.DefaultResponse = response
	return m
}

// WithError makes every call fail with err.
func (m *MockTranscriber) WithError(err error) *MockTranscriber {
	m.DefaultError = err
	return m
}

// WithLatency makes every call block for d or until ctx is done.
func (m *MockTranscriber) WithLatency(d time.Duration) *MockTranscriber {
	m.Latency = d
	return m
}

// Transcript implements the api.Transcriber interface
func (m *MockTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	_, statErr := os.Stat(inputFilePath)

	m.mu.Lock()
	m.CallHistory = append(m.CallHistory, TranscriptionCall{
		InputFilePath: inputFilePath,
		FileExisted:   statErr == nil,
		Timestamp:     time.Now(),
	})
	response, err, latency := m.DefaultResponse, m.DefaultError, m.Latency
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return response, nil
}

// GetCallCount returns the number of Transcript calls.
func (m *MockTranscriber) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CallHistory)
}

// GetLastCall returns the most recent call.
func (m *MockTranscriber) GetLastCall() (TranscriptionCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.CallHistory) == 0 {
		return TranscriptionCall{}, false
	}
	return m.CallHistory[len(m.CallHistory)-1], true
}
