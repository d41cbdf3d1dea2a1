package repository

import (
	"strings"

	"github.com/samber/lo"
	"recorder-whisper/internal/app/model"
)

// Filter returns the records whose transcript or audio URL contains q
// (case-insensitive), newest first, paged by offset and limit. A limit of
// zero or less means no limit. The second result is the match count before
// paging.
func Filter(records []model.TranscriptionRecord, q string, offset, limit int) ([]model.TranscriptionRecord, int) {
	q = strings.ToLower(strings.TrimSpace(q))

	matched := lo.Filter(records, func(r model.TranscriptionRecord, _ int) bool {
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(r.Transcription), q) ||
			strings.Contains(strings.ToLower(r.AudioURL), q)
	})
	matched = lo.Reverse(matched)
	total := len(matched)

	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []model.TranscriptionRecord{}, total
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total
}
