package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "recorder-whisper/internal/app/errors"
	"recorder-whisper/internal/config"
)

func TestLocalRecordingStore_SaveAndOpen(t *testing.T) {
	store, err := NewLocalRecordingStore(t.TempDir(), "http://localhost:8501/")
	require.NoError(t, err)

	rec, err := store.Save(context.Background(), strings.NewReader("RIFF data"), -1, "audio/wav")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rec.ID, ".wav"))
	assert.Equal(t, "http://localhost:8501/recordings/"+rec.ID, rec.URL)
	assert.Equal(t, int64(9), rec.Size)
	assert.Equal(t, "audio/wav", rec.ContentType)

	rc, contentType, err := store.Open(context.Background(), rec.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "RIFF data", string(data))
	assert.Equal(t, "audio/wav", contentType)
}

func TestLocalRecordingStore_ContentTypes(t *testing.T) {
	store, err := NewLocalRecordingStore(t.TempDir(), "")
	require.NoError(t, err)

	tests := map[string]string{
		"audio/mpeg":             ".mp3",
		"audio/webm;codecs=opus": ".webm",
		"":                       ".wav",
		"application/json":       ".wav",
	}
	for contentType, ext := range tests {
		rec, err := store.Save(context.Background(), strings.NewReader("x"), 1, contentType)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(rec.ID, ext), "%s -> %s", contentType, rec.ID)
	}
}

func TestLocalRecordingStore_OpenRejectsBadIDs(t *testing.T) {
	store, err := NewLocalRecordingStore(t.TempDir(), "")
	require.NoError(t, err)

	for _, id := range []string{"../etc/passwd", "x.wav", "3f1c2b8e-0000-4000-8000-000000000000.exe", ""} {
		_, _, err := store.Open(context.Background(), id)
		assert.ErrorIs(t, err, apperrors.ErrFileNotFound, id)
	}

	_, _, err = store.Open(context.Background(), "3f1c2b8e-0000-4000-8000-000000000000.wav")
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}

// fakeS3 accepts PUT object requests and remembers the body.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func TestMinioRecordingStore_Save(t *testing.T) {
	s3 := &fakeS3{objects: make(map[string][]byte)}
	server := httptest.NewServer(s3)
	defer server.Close()

	endpoint := strings.TrimPrefix(server.URL, "http://")
	client, err := NewMinioClient(config.MinioConfig{Endpoint: endpoint, AccessKey: "minioadmin", SecretKey: "minioadmin"})
	require.NoError(t, err)

	store := NewMinioRecordingStore(client, "scribe-recordings", 15*time.Minute)
	payload := []byte("RIFF recorded audio")
	rec, err := store.Save(context.Background(), bytes.NewReader(payload), int64(len(payload)), "audio/wav")
	require.NoError(t, err)

	key := "/scribe-recordings/recordings/" + rec.ID
	s3.mu.Lock()
	// plain-HTTP uploads may arrive aws-chunked, so look for the payload inside
	assert.Contains(t, string(s3.objects[key]), string(payload))
	s3.mu.Unlock()

	u, err := url.Parse(rec.URL)
	require.NoError(t, err)
	assert.Equal(t, key, u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
