package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"recorder-whisper/internal/app/model"
)

func sampleRecords() []model.TranscriptionRecord {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	texts := []string{"Hello world", "meeting notes", "HELLO again", "grocery list", "hello there"}
	records := make([]model.TranscriptionRecord, len(texts))
	for i, text := range texts {
		records[i] = model.NewTranscriptionRecord(fmt.Sprintf("/tmp/%d.wav", i), text, base.Add(time.Duration(i)*time.Minute))
	}
	return records
}

func TestFilter(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name      string
		q         string
		offset    int
		limit     int
		wantTexts []string
		wantTotal int
	}{
		{name: "all_newest_first", wantTexts: []string{"hello there", "grocery list", "HELLO again", "meeting notes", "Hello world"}, wantTotal: 5},
		{name: "case_insensitive", q: "hello", wantTexts: []string{"hello there", "HELLO again", "Hello world"}, wantTotal: 3},
		{name: "limit", q: "hello", limit: 2, wantTexts: []string{"hello there", "HELLO again"}, wantTotal: 3},
		{name: "offset", q: "hello", offset: 2, wantTexts: []string{"Hello world"}, wantTotal: 3},
		{name: "offset_past_end", offset: 10, wantTexts: []string{}, wantTotal: 5},
		{name: "matches_audio_url", q: "/tmp/3", wantTexts: []string{"grocery list"}, wantTotal: 1},
		{name: "no_match", q: "zebra", wantTexts: []string{}, wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total := Filter(records, tt.q, tt.offset, tt.limit)
			texts := make([]string, 0, len(got))
			for _, r := range got {
				texts = append(texts, r.Transcription)
			}
			assert.Equal(t, tt.wantTexts, texts)
			assert.Equal(t, tt.wantTotal, total)
		})
	}

	// the input keeps its order
	assert.Equal(t, "Hello world", records[0].Transcription)
}
