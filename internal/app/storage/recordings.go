package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recording is a stored recorder-widget blob.
type Recording struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordingStore keeps recorder blobs and hands out URLs the pipeline can fetch.
type RecordingStore interface {
	Save(ctx context.Context, r io.Reader, size int64, contentType string) (*Recording, error)
	Open(ctx context.Context, id string) (io.ReadCloser, string, error)
}

var extensionsByType = map[string]string{
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
	"audio/wave":  ".wav",
	"audio/mpeg":  ".mp3",
	"audio/mp3":   ".mp3",
	"audio/webm":  ".webm",
	"audio/ogg":   ".ogg",
}

var typesByExtension = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
}

// newRecordingID returns a fresh id whose extension follows contentType.
func newRecordingID(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	ext, ok := extensionsByType[strings.ToLower(mediaType)]
	if !ok {
		ext = ".wav"
	}
	return uuid.NewString() + ext
}

// contentTypeForID maps an id back to a content type.
func contentTypeForID(id string) string {
	if ct, ok := typesByExtension[strings.ToLower(filepath.Ext(id))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// validateID rejects anything that is not a bare <uuid><ext> name.
func validateID(id string) error {
	ext := filepath.Ext(id)
	if _, ok := typesByExtension[strings.ToLower(ext)]; !ok {
		return fmt.Errorf("invalid recording id %q", id)
	}
	if _, err := uuid.Parse(strings.TrimSuffix(id, ext)); err != nil {
		return fmt.Errorf("invalid recording id %q", id)
	}
	return nil
}
