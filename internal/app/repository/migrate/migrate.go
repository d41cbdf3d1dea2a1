package migrate

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"recorder-whisper/internal/app/repository"
)

// Result summarises one Copy run.
type Result struct {
	Copied  int
	Skipped int
	LastRow int
}

// getLastRow reads the checkpoint; a missing or unreadable file means start over.
func getLastRow(checkpointPath string) int {
	if checkpointPath == "" {
		return 0
	}
	data, err := os.ReadFile(checkpointPath)
	if err != nil {
		return 0
	}

	lastRow, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return lastRow
}

func saveLastRow(checkpointPath string, lastRow int) error {
	if checkpointPath == "" {
		return nil
	}
	return os.WriteFile(checkpointPath, []byte(strconv.Itoa(lastRow)), 0644)
}

// Copy appends the records of from to to, in order. Rows before the
// checkpoint are skipped so an interrupted run can be resumed; rows with an
// empty transcript are dropped.
func Copy(ctx context.Context, from, to repository.HistoryStore, checkpointPath string, logger *zap.Logger) (Result, error) {
	records, err := from.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load source history: %w", err)
	}

	result := Result{LastRow: getLastRow(checkpointPath)}
	if result.LastRow > len(records) {
		result.LastRow = 0
	}

	for i := result.LastRow; i < len(records); i++ {
		record := records[i]
		if strings.TrimSpace(record.Transcription) == "" {
			logger.Warn("skipping row without transcript", zap.Int("row", i+1), zap.String("audio_url", record.AudioURL))
			result.Skipped++
			result.LastRow = i + 1
			continue
		}

		if err := to.Append(ctx, record); err != nil {
			if saveErr := saveLastRow(checkpointPath, result.LastRow); saveErr != nil {
				logger.Error("failed to save checkpoint", zap.Error(saveErr))
			}
			return result, fmt.Errorf("failed to append row %d: %w", i+1, err)
		}
		result.Copied++
		result.LastRow = i + 1
	}

	if err := saveLastRow(checkpointPath, result.LastRow); err != nil {
		return result, fmt.Errorf("failed to save checkpoint: %w", err)
	}

	logger.Info("history migration completed",
		zap.Int("copied", result.Copied),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
