package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "recorder-whisper/internal/app/errors"
	"recorder-whisper/internal/app/util/files"
)

// LocalRecordingStore keeps recordings in a directory and serves them from
// <baseURL>/recordings/<id>.
type LocalRecordingStore struct {
	dir     string
	baseURL string
}

// NewLocalRecordingStore creates dir if needed.
func NewLocalRecordingStore(dir, baseURL string) (*LocalRecordingStore, error) {
	if err := files.EnsureDir(dir); err != nil {
		return nil, err
	}
	return &LocalRecordingStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes r to a new file.
func (s *LocalRecordingStore) Save(ctx context.Context, r io.Reader, size int64, contentType string) (*Recording, error) {
	id := newRecordingID(contentType)
	path := filepath.Join(s.dir, id)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, apperrors.IO(err, "failed to create recording")
	}
	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, apperrors.IO(err, "failed to write recording")
	}

	return &Recording{
		ID:          id,
		URL:         s.baseURL + "/recordings/" + id,
		ContentType: contentTypeForID(id),
		Size:        n,
		CreatedAt:   time.Now(),
	}, nil
}

// Open returns the stored bytes and their content type.
func (s *LocalRecordingStore) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	if err := validateID(id); err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrFileNotFound, err)
	}

	f, err := os.Open(filepath.Join(s.dir, id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", apperrors.ErrFileNotFound
	}
	if err != nil {
		return nil, "", apperrors.IO(err, "failed to open recording")
	}
	return f, contentTypeForID(id), nil
}
