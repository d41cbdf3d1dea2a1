package services

import (
	"context"
	"io"

	"recorder-whisper/internal/api/v1/dto"
	"recorder-whisper/internal/app/session"
)

// TranscriptionService runs the pipeline for API and page requests.
type TranscriptionService interface {
	TranscribeUpload(ctx context.Context, name, contentType string, body io.Reader) *session.Result
	TranscribeRecorded(ctx context.Context, audioURL string) *session.Result
}

// HistoryService reads the history table.
type HistoryService interface {
	ListHistory(ctx context.Context, query dto.ListHistoryQuery) (*dto.HistoryResponse, error)
	ExportHistory(ctx context.Context, format string, w io.Writer) error
}

// RecordingService stores recorder-widget blobs.
type RecordingService interface {
	SaveRecording(ctx context.Context, body io.Reader, size int64, contentType string) (*dto.RecordingResponse, error)
	OpenRecording(ctx context.Context, id string) (io.ReadCloser, string, error)
}
