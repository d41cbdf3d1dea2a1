package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"recorder-whisper/internal/app/model"
)

// MP3Bytes starts with an ID3 tag, enough for content sniffing.
var MP3Bytes = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 64)...)

// WAVBytes starts with a RIFF/WAVE header.
var WAVBytes = append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 64)...)

// SampleRecords returns n records one minute apart.
func SampleRecords(n int) []model.TranscriptionRecord {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	records := make([]model.TranscriptionRecord, n)
	for i := range records {
		records[i] = model.NewTranscriptionRecord(
			fmt.Sprintf("http://localhost:8501/recordings/%d.wav", i),
			fmt.Sprintf("sample transcript %d", i),
			base.Add(time.Duration(i)*time.Minute),
		)
	}
	return records
}

// NewRecordingServer serves body with contentType at every path. A status
// other than 200 is returned without a body.
func NewRecordingServer(status int, contentType string, body []byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.Write(body)
	}))
}
