package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"recorder-whisper/internal/config"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello world", truncate("hello\n  world", 20))
	assert.Equal(t, "hel...", truncate("hello", 3))
	assert.Equal(t, "héllo", truncate("héllo", 0))
	assert.Equal(t, "hé...", truncate("héllo", 2))
}

func TestSameStore(t *testing.T) {
	csv := config.HistoryConfig{Backend: config.HistoryCSV, CSVPath: "audio.csv", Lock: config.LockMutex}
	assert.True(t, sameStore(csv, config.HistoryConfig{Backend: config.HistoryCSV, CSVPath: "audio.csv"}))
	assert.False(t, sameStore(csv, config.HistoryConfig{Backend: config.HistoryCSV, CSVPath: "other.csv"}))
	assert.False(t, sameStore(csv, config.HistoryConfig{Backend: config.HistorySQLite, CSVPath: "audio.csv"}))

	pg := config.HistoryConfig{Backend: config.HistoryPostgres, PostgresDSN: "postgres://a"}
	assert.True(t, sameStore(pg, pg))
	assert.False(t, sameStore(pg, config.HistoryConfig{Backend: config.HistoryPostgres, PostgresDSN: "postgres://b"}))
}
