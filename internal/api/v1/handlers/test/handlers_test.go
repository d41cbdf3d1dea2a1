package test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
	"recorder-whisper/internal/api/middleware"
	"recorder-whisper/internal/api/v1/dto"
	"recorder-whisper/internal/api/v1/routes"
	"recorder-whisper/internal/api/v1/services"
	"recorder-whisper/internal/app/session"
	"recorder-whisper/internal/app/storage"
	"recorder-whisper/internal/app/testutil"
)

type testEnv struct {
	router      *gin.Engine
	converter   *testutil.MockConverter
	transcriber *testutil.MockTranscriber
	history     *testutil.MockHistoryStore
}

func setupTestRouter(t *testing.T, records ...int) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		converter:   testutil.NewMockConverter(),
		transcriber: testutil.NewMockTranscriber().WithDefaultResponse("hello from the api"),
		history:     testutil.NewMockHistoryStore(),
	}
	if len(records) > 0 {
		env.history = testutil.NewMockHistoryStore(testutil.SampleRecords(records[0])...)
	}

	recordings, err := storage.NewLocalRecordingStore(t.TempDir(), "http://localhost")
	require.NoError(t, err)

	orch := session.NewOrchestrator(env.converter, env.transcriber, env.history,
		session.NewHTTPFetcher(0), zap.NewNop(), session.WithTempDir(t.TempDir()))

	container := &routes.ServiceContainer{
		TranscriptionService: services.NewTranscriptionService(orch),
		HistoryService:       services.NewHistoryService(env.history),
		RecordingService:     services.NewRecordingService(recordings),
		MaxUploadMB:          1,
	}

	env.router = gin.New()
	env.router.Use(middleware.RequestID(), middleware.ErrorHandler(zap.NewNop()))
	routes.RegisterRoutes(env.router.Group("/api/v1"), container)
	routes.RegisterRecordingFiles(env.router, container)
	return env
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doJSON(t *testing.T, router http.Handler, method, path string, body io.Reader, contentType string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestTranscriptionHandler_Upload(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(*testEnv)
		filename       string
		contentType    string
		data           []byte
		expectedStatus int
		validateBody   func(*testing.T, *testEnv, map[string]interface{})
	}{
		{
			name:           "wav_upload_saved",
			filename:       "note.wav",
			contentType:    "audio/wav",
			data:           testutil.WAVBytes,
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, env *testEnv, body map[string]interface{}) {
				assert.Equal(t, "hello from the api", body["transcript"])
				assert.Equal(t, true, body["persisted"])
				assert.Equal(t, 1, env.history.Len())
				assert.Equal(t, 0, env.converter.CallCount())
			},
		},
		{
			name:           "mp3_upload_converted",
			filename:       "note.mp3",
			contentType:    "audio/mpeg",
			data:           testutil.MP3Bytes,
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, env *testEnv, body map[string]interface{}) {
				assert.Equal(t, 1, env.converter.CallCount())
				messages := body["messages"].([]interface{})
				require.Len(t, messages, 2)
				assert.Equal(t, "Converting MP3 to WAV...", messages[0].(map[string]interface{})["text"])
			},
		},
		{
			name:           "conversion_failure",
			setup:          func(env *testEnv) { env.converter.WithError(errors.New("Invalid data")) },
			filename:       "bad.mp3",
			contentType:    "audio/mpeg",
			data:           []byte("junk"),
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, env *testEnv, body map[string]interface{}) {
				assert.Equal(t, "conversion", body["kind"])
				messages := body["messages"].([]interface{})
				assert.Contains(t, messages[len(messages)-1], "Error during conversion")
				assert.Equal(t, 0, env.history.Len())
			},
		},
		{
			name:           "transcription_failure",
			setup:          func(env *testEnv) { env.transcriber.WithError(errors.New("model crashed")) },
			filename:       "a.wav",
			contentType:    "audio/wav",
			data:           testutil.WAVBytes,
			expectedStatus: http.StatusBadGateway,
			validateBody: func(t *testing.T, env *testEnv, body map[string]interface{}) {
				assert.Equal(t, "transcription", body["kind"])
				assert.NotEmpty(t, body["request_id"])
			},
		},
		{
			name:           "no_speech",
			setup:          func(env *testEnv) { env.transcriber.WithDefaultResponse("") },
			filename:       "quiet.wav",
			contentType:    "audio/wav",
			data:           testutil.WAVBytes,
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, env *testEnv, body map[string]interface{}) {
				assert.Equal(t, "", body["transcript"])
				assert.Equal(t, false, body["persisted"])
				assert.Equal(t, 0, env.history.Len())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(t)
			if tt.setup != nil {
				tt.setup(env)
			}

			body, ct := multipartBody(t, "file", tt.filename, tt.contentType, tt.data)
			rec, decoded := doJSON(t, env.router, http.MethodPost, "/api/v1/transcriptions/upload", body, ct)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			tt.validateBody(t, env, decoded)
		})
	}
}

func TestTranscriptionHandler_UploadMissingFile(t *testing.T) {
	env := setupTestRouter(t)
	body, ct := multipartBody(t, "wrong", "a.wav", "audio/wav", testutil.WAVBytes)

	rec, decoded := doJSON(t, env.router, http.MethodPost, "/api/v1/transcriptions/upload", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decoded["kind"])
}

func TestTranscriptionHandler_UploadTooLarge(t *testing.T) {
	env := setupTestRouter(t)
	body, ct := multipartBody(t, "file", "big.wav", "audio/wav", make([]byte, 2<<20))

	rec, decoded := doJSON(t, env.router, http.MethodPost, "/api/v1/transcriptions/upload", body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "payload_too_large", decoded["kind"])
}

func TestTranscriptionHandler_Recorded(t *testing.T) {
	srv := testutil.NewRecordingServer(http.StatusOK, "audio/wav", testutil.WAVBytes)
	defer srv.Close()

	env := setupTestRouter(t)
	url := srv.URL + "/recordings/x.wav"
	payload, _ := json.Marshal(dto.RecordedTranscriptionRequest{AudioURL: url})

	rec, decoded := doJSON(t, env.router, http.MethodPost, "/api/v1/transcriptions/recorded", bytes.NewReader(payload), "application/json")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	record := decoded["record"].(map[string]interface{})
	assert.Equal(t, url, record["audio_url"])
	assert.Equal(t, "hello from the api", record["transcription"])
}

func TestTranscriptionHandler_RecordedErrors(t *testing.T) {
	gone := testutil.NewRecordingServer(http.StatusNotFound, "", nil)
	defer gone.Close()

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedKind   string
	}{
		{name: "missing_url", body: `{}`, expectedStatus: http.StatusUnprocessableEntity, expectedKind: "validation"},
		{name: "invalid_url", body: `{"audio_url":"not a url"}`, expectedStatus: http.StatusUnprocessableEntity, expectedKind: "validation"},
		{name: "download_fails", body: `{"audio_url":"` + gone.URL + `/missing.wav"}`, expectedStatus: http.StatusBadGateway, expectedKind: "fetch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(t)
			rec, decoded := doJSON(t, env.router, http.MethodPost, "/api/v1/transcriptions/recorded", strings.NewReader(tt.body), "application/json")
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedKind, decoded["kind"])
		})
	}
}

func TestHistoryHandler_List(t *testing.T) {
	env := setupTestRouter(t, 5)

	rec, decoded := doJSON(t, env.router, http.MethodGet, "/api/v1/history?limit=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-Total-Count"))

	data := decoded["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, "sample transcript 4", data[0].(map[string]interface{})["transcription"])

	rec, decoded = doJSON(t, env.router, http.MethodGet, "/api/v1/history?q=TRANSCRIPT%202", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decoded["data"], 1)

	rec, _ = doJSON(t, env.router, http.MethodGet, "/api/v1/history?limit=0&offset=-1", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHistoryHandler_ListLoadError(t *testing.T) {
	env := setupTestRouter(t)
	env.history.WithLoadError(errors.New("disk gone"))

	rec, decoded := doJSON(t, env.router, http.MethodGet, "/api/v1/history", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal", decoded["kind"])
}

func TestHistoryHandler_Export(t *testing.T) {
	env := setupTestRouter(t, 2)

	rec, _ := doJSON(t, env.router, http.MethodGet, "/api/v1/history/export", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "audio_url,transcription,timestamp", lines[0])

	rec, _ = doJSON(t, env.router, http.MethodGet, "/api/v1/history/export?format=xlsx", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "history.xlsx")
	book, err := xlsx.OpenBinary(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, book.Sheets[0].Rows, 3)

	rec, _ = doJSON(t, env.router, http.MethodGet, "/api/v1/history/export?format=pdf", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRecordingHandler_RoundTrip(t *testing.T) {
	env := setupTestRouter(t)

	body, ct := multipartBody(t, "audio", "recording.wav", "audio/wav", testutil.WAVBytes)
	rec, decoded := doJSON(t, env.router, http.MethodPost, "/api/v1/recordings", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	id := decoded["id"].(string)
	assert.Equal(t, "http://localhost/recordings/"+id, decoded["url"])

	req := httptest.NewRequest(http.MethodGet, "/recordings/"+id, nil)
	get := httptest.NewRecorder()
	env.router.ServeHTTP(get, req)
	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "audio/wav", get.Header().Get("Content-Type"))
	assert.Equal(t, testutil.WAVBytes, get.Body.Bytes())

	missing, decoded := doJSON(t, env.router, http.MethodGet, "/recordings/not-a-recording.wav", nil, "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "not_found", decoded["kind"])
}

func TestRecordingHandler_RejectsNonAudio(t *testing.T) {
	env := setupTestRouter(t)

	body, ct := multipartBody(t, "audio", "notes.txt", "text/plain", []byte("hello"))
	rec, decoded := doJSON(t, env.router, http.MethodPost, "/api/v1/recordings", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation", decoded["kind"])
}
