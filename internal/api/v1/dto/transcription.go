package dto

import (
	"time"

	"recorder-whisper/internal/app/model"
	"recorder-whisper/internal/app/session"
)

// RecordedTranscriptionRequest asks for the recording at AudioURL to be
// transcribed.
type RecordedTranscriptionRequest struct {
	AudioURL string `json:"audio_url" binding:"required,url" example:"http://localhost:8501/recordings/0b6f.wav"`
}

// MessageResponse is one status line of a run.
type MessageResponse struct {
	Level string `json:"level" example:"info"`
	Text  string `json:"text" example:"Converting MP3 to WAV..."`
}

// HistoryRecord is one history row.
type HistoryRecord struct {
	AudioURL      string    `json:"audio_url"`
	Transcription string    `json:"transcription"`
	Timestamp     time.Time `json:"timestamp"`
}

// TranscriptionResponse is the outcome of one run.
type TranscriptionResponse struct {
	Transcript string            `json:"transcript"`
	Persisted  bool              `json:"persisted"`
	Record     *HistoryRecord    `json:"record,omitempty"`
	Messages   []MessageResponse `json:"messages"`
	States     []string          `json:"states"`
}

// FromRecord converts a history record.
func FromRecord(r model.TranscriptionRecord) HistoryRecord {
	return HistoryRecord{AudioURL: r.AudioURL, Transcription: r.Transcription, Timestamp: r.Timestamp}
}

// FromResult converts a run result.
func FromResult(r *session.Result) *TranscriptionResponse {
	resp := &TranscriptionResponse{
		Transcript: r.Transcript,
		Persisted:  r.Persisted(),
		Messages:   make([]MessageResponse, len(r.Messages)),
		States:     make([]string, len(r.States)),
	}
	for i, m := range r.Messages {
		resp.Messages[i] = MessageResponse{Level: string(m.Level), Text: m.Text}
	}
	for i, s := range r.States {
		resp.States[i] = string(s)
	}
	if r.Record != nil {
		rec := FromRecord(*r.Record)
		resp.Record = &rec
	}
	return resp
}

// MessageTexts returns the text of every message in order.
func MessageTexts(r *session.Result) []string {
	texts := make([]string, len(r.Messages))
	for i, m := range r.Messages {
		texts[i] = m.Text
	}
	return texts
}
