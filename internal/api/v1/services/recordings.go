package services

import (
	"context"
	"errors"
	"io"
	"mime"
	"strings"

	apierrors "recorder-whisper/internal/api/errors"
	"recorder-whisper/internal/api/v1/dto"
	apperrors "recorder-whisper/internal/app/errors"
	"recorder-whisper/internal/app/storage"
)

type recordingService struct {
	store storage.RecordingStore
}

// NewRecordingService creates a recording service over store.
func NewRecordingService(store storage.RecordingStore) RecordingService {
	return &recordingService{store: store}
}

func (s *recordingService) SaveRecording(ctx context.Context, body io.Reader, size int64, contentType string) (*dto.RecordingResponse, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "audio/") {
		return nil, apierrors.NewValidationError("Unsupported recording", map[string]string{
			"content_type": "must be an audio type",
		})
	}

	rec, err := s.store.Save(ctx, body, size, mediaType)
	if err != nil {
		return nil, err
	}
	return &dto.RecordingResponse{
		ID:          rec.ID,
		URL:         rec.URL,
		ContentType: rec.ContentType,
		Size:        rec.Size,
		CreatedAt:   rec.CreatedAt,
	}, nil
}

func (s *recordingService) OpenRecording(ctx context.Context, id string) (io.ReadCloser, string, error) {
	rc, contentType, err := s.store.Open(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrFileNotFound) {
			return nil, "", apierrors.NewNotFoundError("recording")
		}
		return nil, "", err
	}
	return rc, contentType, nil
}
