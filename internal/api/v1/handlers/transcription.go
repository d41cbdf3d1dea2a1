package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "recorder-whisper/internal/api/errors"
	"recorder-whisper/internal/api/middleware"
	"recorder-whisper/internal/api/v1/dto"
	"recorder-whisper/internal/api/v1/services"
	"recorder-whisper/internal/app/session"
)

// TranscriptionHandler handles transcription-related API endpoints
type TranscriptionHandler struct {
	service     services.TranscriptionService
	maxUploadMB int64
}

// NewTranscriptionHandler creates a new transcription handler. Uploads
// larger than maxUploadMB are rejected; zero means no limit.
func NewTranscriptionHandler(service services.TranscriptionService, maxUploadMB int64) *TranscriptionHandler {
	return &TranscriptionHandler{
		service:     service,
		maxUploadMB: maxUploadMB,
	}
}

// Upload handles POST /api/v1/transcriptions/upload
//
// @Summary Transcribe an uploaded audio file
// @Description Stages the file, converts MP3 to WAV, transcribes it and appends a history row when speech was found
// @Tags transcriptions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "MP3 or WAV file"
// @Success 200 {object} dto.TranscriptionResponse "Run finished"
// @Failure 400 {object} errors.APIError "No file uploaded"
// @Failure 413 {object} errors.APIError "Upload too large"
// @Failure 422 {object} errors.APIError "Conversion failed"
// @Failure 502 {object} errors.APIError "Transcription provider failed"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /transcriptions/upload [post]
func (h *TranscriptionHandler) Upload(c *gin.Context) {
	if h.maxUploadMB > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadMB<<20)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.HandleError(c, apierrors.NewPayloadTooLargeError(h.maxUploadMB))
			return
		}
		middleware.HandleError(c, apierrors.NewBadRequestError("No file uploaded"))
		return
	}
	defer file.Close()

	result := h.service.TranscribeUpload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	RespondResult(c, result)
}

// Recorded handles POST /api/v1/transcriptions/recorded
//
// @Summary Transcribe a recording
// @Description Downloads the recording at audio_url and runs it through the pipeline
// @Tags transcriptions
// @Accept json
// @Produce json
// @Param request body dto.RecordedTranscriptionRequest true "Recording location"
// @Success 200 {object} dto.TranscriptionResponse "Run finished"
// @Failure 422 {object} errors.APIError "Validation or conversion error"
// @Failure 502 {object} errors.APIError "Download or transcription failed"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /transcriptions/recorded [post]
func (h *TranscriptionHandler) Recorded(c *gin.Context) {
	var req dto.RecordedTranscriptionRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	result := h.service.TranscribeRecorded(c.Request.Context(), req.AudioURL)
	RespondResult(c, result)
}

// RespondResult writes a run result. A run that failed before saving a
// record is an error response carrying its status lines; a saved run is a
// success even when cleanup reported a problem.
func RespondResult(c *gin.Context, result *session.Result) {
	if result.Err != nil && !result.Persisted() {
		middleware.HandleError(c, apierrors.FromPipelineError(result.Err).WithMessages(dto.MessageTexts(result)))
		return
	}
	c.JSON(http.StatusOK, dto.FromResult(result))
}
