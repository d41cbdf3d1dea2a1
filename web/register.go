package web

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"recorder-whisper/internal/api/v1/services"
	"recorder-whisper/web/handlers"
)

// Page mounts the page and its assets on a router.
type Page struct {
	Transcriptions services.TranscriptionService
	History        services.HistoryService
	Logger         *zap.Logger
	MaxUploadMB    int64
}

// Register adds GET /, POST / and GET /static/*filepath.
func (p *Page) Register(router gin.IRouter) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	page := handlers.NewPageHandler(p.Transcriptions, p.History, MustTemplates(), logger, p.MaxUploadMB)
	static := handlers.NewStaticHandler(Static())

	router.GET("/", page.Index)
	router.POST("/", page.Submit)
	router.GET("/static/*filepath", static.ServeStatic)
}
