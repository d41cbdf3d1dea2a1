//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"recorder-whisper/internal/api/v1/dto"
	"recorder-whisper/internal/app"
	"recorder-whisper/internal/app/testutil"
	"recorder-whisper/internal/config"

	_ "recorder-whisper/internal/app/api/openai/whisper"
)

// mockOpenAI answers /v1/audio/transcriptions with a numbered transcript,
// or with failStatus when it is set.
type mockOpenAI struct {
	server     *httptest.Server
	calls      atomic.Int32
	failStatus atomic.Int32
}

func newMockOpenAI(t *testing.T) *mockOpenAI {
	t.Helper()
	m := &mockOpenAI{}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := m.calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			http.NotFound(w, r)
			return
		}
		if status := m.failStatus.Load(); status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(int(status))
			fmt.Fprint(w, `{"error":{"message":"model overloaded","type":"server_error"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"text":"integration transcript %d"}`, n)
	}))
	t.Cleanup(m.server.Close)
	return m
}

// fakeFFmpeg writes a script that copies its input to the last argument.
func fakeFFmpeg(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nin=\"$3\"\nfor last; do :; done\ncp \"$in\" \"$last\"\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

type stack struct {
	url     string
	cfg     *config.AppConfig
	openai  *mockOpenAI
	tempDir string
}

func startStack(t *testing.T, mutate func(cfg *config.AppConfig)) *stack {
	t.Helper()
	openai := newMockOpenAI(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	baseURL := "http://" + ln.Addr().String()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Server.Environment = "test"
	cfg.Server.PublicURL = baseURL
	cfg.TempDir = filepath.Join(dir, "tmp")
	require.NoError(t, os.MkdirAll(cfg.TempDir, 0755))
	cfg.History.Backend = config.HistorySQLite
	cfg.History.SQLitePath = filepath.Join(dir, "history.db")
	cfg.History.CSVPath = filepath.Join(dir, "audio.csv")
	cfg.Recordings.Dir = filepath.Join(dir, "recordings")
	cfg.Converter.FFmpegPath = fakeFFmpeg(t)
	cfg.Transcription.Provider = "openai"
	cfg.Transcription.Settings = map[string]interface{}{
		"api_key":  "sk-integration-test-key-000000",
		"base_url": openai.server.URL + "/v1",
		"model":    "whisper-1",
	}
	if mutate != nil {
		mutate(cfg)
	}

	srv, cleanup, err := app.InitializeServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	ts := &httptest.Server{Listener: ln, Config: &http.Server{Handler: srv.Router()}}
	ts.Start()
	t.Cleanup(ts.Close)

	return &stack{url: ts.URL, cfg: cfg, openai: openai, tempDir: cfg.TempDir}
}

func (s *stack) upload(t *testing.T, field, filename, contentType string, data []byte, path string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename)}
	h["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(s.url+path, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func (s *stack) history(t *testing.T) dto.HistoryResponse {
	t.Helper()
	resp, err := http.Get(s.url + "/api/v1/history?limit=500")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.HistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func assertTempDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged files left behind")
}

func TestEndToEnd_UploadMP3(t *testing.T) {
	s := startStack(t, nil)

	resp := s.upload(t, "file", "talk.mp3", "audio/mpeg", testutil.MP3Bytes, "/api/v1/transcriptions/upload")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.TranscriptionResponse
	decode(t, resp, &out)
	assert.Equal(t, "integration transcript 1", out.Transcript)
	assert.True(t, out.Persisted)
	require.NotEmpty(t, out.Messages)
	assert.Equal(t, "Converting MP3 to WAV...", out.Messages[0].Text)

	history := s.history(t)
	require.Len(t, history.Data, 1)
	assert.Equal(t, "integration transcript 1", history.Data[0].Transcription)
	assertTempDirEmpty(t, s.tempDir)
}

func TestEndToEnd_RecordThenTranscribe(t *testing.T) {
	s := startStack(t, nil)

	resp := s.upload(t, "audio", "recording.wav", "audio/wav", testutil.WAVBytes, "/api/v1/recordings")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec dto.RecordingResponse
	decode(t, resp, &rec)
	require.True(t, strings.HasPrefix(rec.URL, s.url+"/recordings/"), rec.URL)

	body, _ := json.Marshal(dto.RecordedTranscriptionRequest{AudioURL: rec.URL})
	resp, err := http.Post(s.url+"/api/v1/transcriptions/recorded", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.TranscriptionResponse
	decode(t, resp, &out)
	assert.Equal(t, "integration transcript 1", out.Transcript)

	history := s.history(t)
	require.Len(t, history.Data, 1)
	assert.Equal(t, rec.URL, history.Data[0].AudioURL)
	assertTempDirEmpty(t, s.tempDir)
}

func TestEndToEnd_RecordedURLMustBeOwnRecording(t *testing.T) {
	s := startStack(t, nil)
	var foreignHits atomic.Int32
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignHits.Add(1)
		w.Write(testutil.WAVBytes)
	}))
	defer foreign.Close()

	for _, url := range []string{foreign.URL + "/recordings/a.wav", s.url + "/api/v1/history"} {
		body, _ := json.Marshal(dto.RecordedTranscriptionRequest{AudioURL: url})
		resp, err := http.Post(s.url+"/api/v1/transcriptions/recorded", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, url)
	}

	assert.Equal(t, int32(0), foreignHits.Load())
	assert.Empty(t, s.history(t).Data)
	assertTempDirEmpty(t, s.tempDir)
}

func TestEndToEnd_ProviderFailure(t *testing.T) {
	s := startStack(t, nil)
	s.openai.failStatus.Store(http.StatusInternalServerError)

	resp := s.upload(t, "file", "talk.wav", "audio/wav", testutil.WAVBytes, "/api/v1/transcriptions/upload")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var apiErr struct {
		Kind     string   `json:"kind"`
		Messages []string `json:"messages"`
	}
	decode(t, resp, &apiErr)
	assert.Equal(t, "transcription", apiErr.Kind)
	require.NotEmpty(t, apiErr.Messages)
	assert.True(t, strings.HasPrefix(apiErr.Messages[len(apiErr.Messages)-1], "Error during transcription"))

	assert.Empty(t, s.history(t).Data)
	assertTempDirEmpty(t, s.tempDir)
}

func TestEndToEnd_ConcurrentUploadsWithRedisLock(t *testing.T) {
	mr := miniredis.RunT(t)
	s := startStack(t, func(cfg *config.AppConfig) {
		cfg.History.Backend = config.HistoryCSV
		cfg.History.Lock = config.LockRedis
		cfg.Redis.Addr = mr.Addr()
	})

	const uploads = 8
	var wg sync.WaitGroup
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := s.upload(t, "file", fmt.Sprintf("clip-%d.wav", i), "audio/wav", testutil.WAVBytes, "/api/v1/transcriptions/upload")
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}(i)
	}
	wg.Wait()

	history := s.history(t)
	assert.Len(t, history.Data, uploads)
	assert.Equal(t, uploads, history.Pagination.Total)
	assert.False(t, mr.Exists(s.cfg.Redis.LockKey))
}

func TestEndToEnd_ExportXLSX(t *testing.T) {
	s := startStack(t, nil)

	for i := 0; i < 3; i++ {
		resp := s.upload(t, "file", "clip.wav", "audio/wav", testutil.WAVBytes, "/api/v1/transcriptions/upload")
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(s.url + "/api/v1/history/export?format=xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Len(t, file.Sheets[0].Rows, 4)
}

func TestEndToEnd_PageUpload(t *testing.T) {
	s := startStack(t, nil)

	resp := s.upload(t, "audio_file", "talk.mp3", "audio/mpeg", testutil.MP3Bytes, "/")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), "integration transcript 1")
	assert.Contains(t, string(page), "Converting MP3 to WAV...")
	assert.Len(t, s.history(t).Data, 1)
}
