package services

import (
	"context"
	"io"

	"recorder-whisper/internal/app/session"
)

// Runner is the pipeline entry point.
type Runner interface {
	Run(ctx context.Context, src session.Source) *session.Result
}

type transcriptionService struct {
	runner Runner
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(runner Runner) TranscriptionService {
	return &transcriptionService{runner: runner}
}

func (s *transcriptionService) TranscribeUpload(ctx context.Context, name, contentType string, body io.Reader) *session.Result {
	return s.runner.Run(ctx, session.Uploaded(name, contentType, body))
}

func (s *transcriptionService) TranscribeRecorded(ctx context.Context, audioURL string) *session.Result {
	return s.runner.Run(ctx, session.Recorded(audioURL))
}
