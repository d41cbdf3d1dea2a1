package routes

import (
	"github.com/gin-gonic/gin"
	"recorder-whisper/internal/api/v1/handlers"
	"recorder-whisper/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	TranscriptionService services.TranscriptionService
	HistoryService       services.HistoryService
	RecordingService     services.RecordingService
	MaxUploadMB          int64
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	transcriptionHandler := handlers.NewTranscriptionHandler(container.TranscriptionService, container.MaxUploadMB)
	transcriptions := router.Group("/transcriptions")
	{
		transcriptions.POST("/upload", transcriptionHandler.Upload)
		transcriptions.POST("/recorded", transcriptionHandler.Recorded)
	}

	historyHandler := handlers.NewHistoryHandler(container.HistoryService)
	history := router.Group("/history")
	{
		history.GET("", historyHandler.List)
		history.GET("/export", historyHandler.Export)
	}

	if container.RecordingService != nil {
		recordingHandler := handlers.NewRecordingHandler(container.RecordingService, container.MaxUploadMB)
		router.POST("/recordings", recordingHandler.Create)
	}
}

// RegisterRecordingFiles serves stored recordings at /recordings/:id, the URL
// the local recording store hands out.
func RegisterRecordingFiles(router gin.IRouter, container *ServiceContainer) {
	if container.RecordingService == nil {
		return
	}
	recordingHandler := handlers.NewRecordingHandler(container.RecordingService, container.MaxUploadMB)
	router.GET("/recordings/:id", recordingHandler.Get)
}
