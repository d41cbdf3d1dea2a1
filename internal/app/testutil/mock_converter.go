package testutil

import (
	"context"
	"os"
	"sync"

	"recorder-whisper/internal/app/audio"
	apperrors "recorder-whisper/internal/app/errors"
)

var _ audio.Converter = (*MockConverter)(nil)

// MockConverter writes a fixed WAV header to the destination instead of
// running ffmpeg. Like the real converter it fails on a missing source.
type MockConverter struct {
	mu    sync.Mutex
	Err   error
	Calls [][2]string
}

// NewMockConverter returns a converter that succeeds.
func NewMockConverter() *MockConverter {
	return &MockConverter{}
}

// WithError makes every conversion fail after writing a partial file, which
// the converter then removes.
func (m *MockConverter) WithError(err error) *MockConverter {
	m.Err = err
	return m
}

func (m *MockConverter) ConvertToWav(ctx context.Context, srcPath, dstPath string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, [2]string{srcPath, dstPath})
	convErr := m.Err
	m.mu.Unlock()

	if _, err := os.Stat(srcPath); err != nil {
		return apperrors.Conversion(err, "source file not accessible")
	}
	if convErr != nil {
		return apperrors.Conversion(convErr, "ffmpeg conversion failed")
	}
	if err := os.WriteFile(dstPath, []byte("RIFF\x24\x00\x00\x00WAVEfmt "), 0644); err != nil {
		return apperrors.Conversion(err, "failed to write output")
	}
	return nil
}

// CallCount returns the number of conversions requested.
func (m *MockConverter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
