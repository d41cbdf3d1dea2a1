package session

import (
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	apperrors "recorder-whisper/internal/app/errors"
)

// Kind names the two ways audio reaches the pipeline.
type Kind string

const (
	KindRecorded Kind = "recorded"
	KindUpload   Kind = "upload"
)

// Upload is a file the user picked in the upload control.
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Source is exactly one of a recorded-audio URL or an upload.
type Source struct {
	URL    string
	Upload *Upload
}

// Recorded returns a source for audio the recorder widget stored at url.
func Recorded(url string) Source {
	return Source{URL: url}
}

// Uploaded returns a source for an uploaded file.
func Uploaded(name, contentType string, body io.Reader) Source {
	return Source{Upload: &Upload{Name: name, ContentType: contentType, Body: body}}
}

// Kind reports which input the source carries.
func (s Source) Kind() Kind {
	if s.Upload != nil {
		return KindUpload
	}
	return KindRecorded
}

// Validate checks that exactly one input is set.
func (s Source) Validate() error {
	hasURL := strings.TrimSpace(s.URL) != ""
	hasUpload := s.Upload != nil && s.Upload.Body != nil
	switch {
	case !hasURL && !hasUpload:
		return apperrors.ErrNoSource
	case hasURL && hasUpload:
		return apperrors.InvalidField("source", "give either a recording URL or an upload, not both")
	}
	return nil
}

// FileSource opens a local file as an upload. The caller closes the returned
// file after the run.
func FileSource(path string) (Source, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, nil, apperrors.IO(err, "failed to open %s", path)
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		contentType = "audio/mpeg"
	}
	return Uploaded(filepath.Base(path), contentType, f), f, nil
}
