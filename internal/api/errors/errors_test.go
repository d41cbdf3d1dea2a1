package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "recorder-whisper/internal/app/errors"
)

func TestFromPipelineError(t *testing.T) {
	cause := stderrors.New("boom")

	tests := []struct {
		name       string
		err        error
		wantKind   ErrorKind
		wantStatus int
	}{
		{name: "conversion", err: apperrors.Conversion(cause, "ffmpeg failed"), wantKind: KindConversion, wantStatus: http.StatusUnprocessableEntity},
		{name: "fetch", err: apperrors.Fetch(cause, "download failed"), wantKind: KindFetch, wantStatus: http.StatusBadGateway},
		{name: "transcription", err: apperrors.Transcription(cause, "model failed"), wantKind: KindTranscription, wantStatus: http.StatusBadGateway},
		{name: "io", err: apperrors.IO(cause, "write failed"), wantKind: KindIO, wantStatus: http.StatusInternalServerError},
		{name: "config", err: apperrors.InvalidField("source", "both set"), wantKind: KindValidation, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown", err: cause, wantKind: KindInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromPipelineError(tt.err)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.wantStatus, apiErr.HTTPStatus())
			assert.Equal(t, tt.err.Error(), apiErr.Message)
		})
	}

	assert.Nil(t, FromPipelineError(nil))

	existing := NewNotFoundError("recording")
	assert.Same(t, existing, FromPipelineError(existing))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewBadRequestError("x").HTTPStatus())
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("x").HTTPStatus())
	assert.Equal(t, http.StatusRequestEntityTooLarge, NewPayloadTooLargeError(10).HTTPStatus())
	assert.Equal(t, http.StatusServiceUnavailable, NewServiceUnavailableError("x").HTTPStatus())
	assert.Equal(t, "recording not found", NewNotFoundError("recording").Error())
}
