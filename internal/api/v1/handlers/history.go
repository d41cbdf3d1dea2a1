package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"recorder-whisper/internal/api/middleware"
	"recorder-whisper/internal/api/v1/dto"
	"recorder-whisper/internal/api/v1/services"
)

// HistoryHandler serves the transcription history.
type HistoryHandler struct {
	service services.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service services.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		service: service,
	}
}

// List handles GET /api/v1/history
//
// @Summary List transcription history
// @Description Returns saved transcriptions newest first, optionally filtered by a case-insensitive substring of the text or URL
// @Tags history
// @Produce json
// @Param q query string false "Search text"
// @Param limit query int false "Items per page" default(50) minimum(1) maximum(500)
// @Param offset query int false "Items to skip" default(0) minimum(0)
// @Success 200 {object} dto.HistoryResponse "History page"
// @Failure 422 {object} errors.APIError "Invalid query parameters"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Header 200 {string} X-Total-Count "Number of matching records"
// @Router /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var query dto.ListHistoryQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ListHistory(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(response.Pagination.Total))
	c.JSON(http.StatusOK, response)
}

// Export handles GET /api/v1/history/export
//
// @Summary Export transcription history
// @Description Downloads the whole history as CSV, XLSX or JSON
// @Tags history
// @Produce octet-stream
// @Param format query string false "Export format" Enums(csv,xlsx,json) default(csv)
// @Success 200 {file} file "History export"
// @Failure 422 {object} errors.APIError "Invalid format"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /history/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}
	if query.Format == "" {
		query.Format = services.FormatCSV
	}

	var contentType string
	switch query.Format {
	case services.FormatCSV:
		contentType = "text/csv"
	case services.FormatJSON:
		contentType = "application/json"
	case services.FormatXLSX:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"history.%s\"", query.Format))

	if err := h.service.ExportHistory(c.Request.Context(), query.Format, c.Writer); err != nil {
		// once the body has started the failure can only be logged
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Type")
			c.Writer.Header().Del("Content-Disposition")
			middleware.HandleError(c, err)
			return
		}
		c.Error(err)
	}
}
