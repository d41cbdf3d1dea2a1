package model

import "time"

// History columns, in file order.
const (
	ColumnAudioURL      = "audio_url"
	ColumnTranscription = "transcription"
	ColumnTimestamp     = "timestamp"
)

// HistoryColumns is the header of every persisted history table.
var HistoryColumns = []string{ColumnAudioURL, ColumnTranscription, ColumnTimestamp}

// TranscriptionRecord is one row of the history table. Records are never
// modified after they are created.
type TranscriptionRecord struct {
	AudioURL      string    `json:"audio_url"`
	Transcription string    `json:"transcription"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTranscriptionRecord builds a record stamped with now.
func NewTranscriptionRecord(audioURL, transcription string, now time.Time) TranscriptionRecord {
	return TranscriptionRecord{
		AudioURL:      audioURL,
		Transcription: transcription,
		Timestamp:     now,
	}
}
