package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"recorder-whisper/internal/app/model"
	"recorder-whisper/internal/app/repository"
)

func TestSQLiteDB_Interface(t *testing.T) {
	var _ repository.HistoryStore = (*SQLiteDB)(nil)
}

func openTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteDB_EmptyLoad(t *testing.T) {
	db := openTestDB(t)

	records, err := db.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSQLiteDB_AppendInOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		record := model.NewTranscriptionRecord(fmt.Sprintf("/tmp/%d.wav", i), fmt.Sprintf("text %d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, db.Append(ctx, record))
	}

	records, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 5)
	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("/tmp/%d.wav", i), r.AudioURL)
		assert.Equal(t, fmt.Sprintf("text %d", i), r.Transcription)
		assert.True(t, base.Add(time.Duration(i)*time.Minute).Equal(r.Timestamp))
	}
}

func TestSQLiteDB_ConcurrentAppendsKeepEveryRecord(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, db.Append(ctx, model.NewTranscriptionRecord(fmt.Sprintf("u%d", i), "t", time.Now())))
		}(i)
	}
	wg.Wait()

	records, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 10)
}

func TestSQLiteDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	db, err := NewSQLiteDB(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Append(ctx, model.NewTranscriptionRecord("a", "hello", time.Now())))
	require.NoError(t, db.Close())

	db, err = NewSQLiteDB(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	records, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records[0].Transcription)
}
