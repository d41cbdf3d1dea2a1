package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"recorder-whisper/internal/api/v1/dto"
	"recorder-whisper/internal/api/v1/services"
	"recorder-whisper/internal/app/session"
)

// pageHistoryLimit caps the rows rendered in the history table.
const pageHistoryLimit = 200

// PageData is what index.tmpl renders.
type PageData struct {
	Messages   []session.Message
	Transcript string
	History    []dto.HistoryRecord
}

// PageHandler renders the single page and handles its two forms.
type PageHandler struct {
	transcriptions services.TranscriptionService
	history        services.HistoryService
	tmpl           *template.Template
	logger         *zap.Logger
	maxUploadMB    int64
}

// NewPageHandler creates the page handler.
func NewPageHandler(
	transcriptions services.TranscriptionService,
	history services.HistoryService,
	tmpl *template.Template,
	logger *zap.Logger,
	maxUploadMB int64,
) *PageHandler {
	return &PageHandler{
		transcriptions: transcriptions,
		history:        history,
		tmpl:           tmpl,
		logger:         logger,
		maxUploadMB:    maxUploadMB,
	}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	h.render(c, &PageData{})
}

// Submit handles POST /. A recorded audio_url takes the recorded path; an
// audio_file upload takes the upload path; a submit with neither just
// re-renders the page.
func (h *PageHandler) Submit(c *gin.Context) {
	data := &PageData{}
	if h.maxUploadMB > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadMB<<20)
	}

	if audioURL := c.PostForm("audio_url"); audioURL != "" {
		h.apply(data, h.transcriptions.TranscribeRecorded(c.Request.Context(), audioURL))
		h.render(c, data)
		return
	}

	file, header, err := c.Request.FormFile("audio_file")
	switch {
	case err == nil:
		defer file.Close()
		result := h.transcriptions.TranscribeUpload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		h.apply(data, result)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.logger.Warn("failed to read upload", zap.Error(err))
		data.Messages = append(data.Messages, session.Message{Level: session.LevelError, Text: "Error during processing: " + err.Error()})
	}
	h.render(c, data)
}

func (h *PageHandler) apply(data *PageData, result *session.Result) {
	data.Messages = append(data.Messages, result.Messages...)
	data.Transcript = result.Transcript
}

func (h *PageHandler) render(c *gin.Context, data *PageData) {
	page, err := h.history.ListHistory(c.Request.Context(), dto.ListHistoryQuery{Limit: pageHistoryLimit})
	if err != nil {
		h.logger.Error("failed to load history", zap.Error(err))
		data.Messages = append(data.Messages, session.Message{Level: session.LevelError, Text: "Error during processing: " + err.Error()})
	} else {
		data.History = page.Data
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.tmpl.ExecuteTemplate(c.Writer, "index.tmpl", data); err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
	}
}
