package middleware

import (
	stderrors "errors"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"recorder-whisper/internal/api/errors"
	apperrors "recorder-whisper/internal/app/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), StructuredLogging(logger), ErrorHandler(logger))
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	r := newRouter(zap.NewNop())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := rec.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestHandleError_PipelineKinds(t *testing.T) {
	r := newRouter(zap.NewNop())
	r.GET("/fetch", func(c *gin.Context) {
		HandleError(c, apperrors.Fetch(stderrors.New("refused"), "failed to download recording"))
	})
	r.GET("/missing", func(c *gin.Context) {
		HandleError(c, errors.NewNotFoundError("recording"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fetch", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "fetch", body["kind"])
	assert.Equal(t, rec.Header().Get("X-Request-ID"), body["request_id"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorHandler_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := newRouter(zap.New(core))
	r.GET("/panic", func(c *gin.Context) { panic(stderrors.New("nil map")) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "internal", body["kind"])
	assert.Equal(t, "Internal server error", body["message"])
	assert.GreaterOrEqual(t, logs.FilterMessage("Internal server error").Len(), 1)
}

func TestStructuredLogging_SkipsHealth(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newRouter(zap.New(core))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/history", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/v1/history", entries[0].ContextMap()["path"])
}

type recordedBody struct {
	AudioURL string `json:"audio_url" binding:"required,url"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantField  string
		wantReason string
	}{
		{name: "missing", body: `{}`, wantField: "audiourl", wantReason: "is required"},
		{name: "not_a_url", body: `{"audio_url":"nope"}`, wantField: "audiourl", wantReason: "must be a valid URL"},
		{name: "bad_json", body: `{`, wantField: "request", wantReason: "invalid JSON format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req recordedBody
			err := ValidateRequest(c, &req)
			require.Error(t, err)

			apiErr, ok := err.(*errors.APIError)
			require.True(t, ok)
			assert.Equal(t, errors.KindValidation, apiErr.Kind)
			assert.Equal(t, tt.wantReason, apiErr.Details[tt.wantField])
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS(DefaultCORSConfig()))
	r.POST("/api/v1/recordings", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recordings", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}
