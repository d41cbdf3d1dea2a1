package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "recorder-whisper/internal/api/errors"
	"recorder-whisper/internal/api/middleware"
	"recorder-whisper/internal/api/v1/services"
)

// RecordingHandler stores and serves recorder-widget blobs.
type RecordingHandler struct {
	service     services.RecordingService
	maxUploadMB int64
}

// NewRecordingHandler creates a new recording handler
func NewRecordingHandler(service services.RecordingService, maxUploadMB int64) *RecordingHandler {
	return &RecordingHandler{
		service:     service,
		maxUploadMB: maxUploadMB,
	}
}

// Create handles POST /api/v1/recordings
//
// @Summary Store a browser recording
// @Description Stores the recorder widget's audio blob and returns a URL the pipeline can fetch
// @Tags recordings
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Recorded audio"
// @Success 201 {object} dto.RecordingResponse "Recording stored"
// @Failure 400 {object} errors.APIError "No audio uploaded"
// @Failure 422 {object} errors.APIError "Not an audio type"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /recordings [post]
func (h *RecordingHandler) Create(c *gin.Context) {
	if h.maxUploadMB > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadMB<<20)
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		middleware.HandleError(c, apierrors.NewBadRequestError("No audio uploaded"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/wav"
	}

	response, err := h.service.SaveRecording(c.Request.Context(), file, header.Size, contentType)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Get handles GET /recordings/:id
//
// @Summary Fetch a stored recording
// @Tags recordings
// @Produce octet-stream
// @Param id path string true "Recording id"
// @Success 200 {file} file "Audio bytes"
// @Failure 404 {object} errors.APIError "Recording not found"
// @Router /recordings/{id} [get]
func (h *RecordingHandler) Get(c *gin.Context) {
	rc, contentType, err := h.service.OpenRecording(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	io.Copy(c.Writer, rc)
}
