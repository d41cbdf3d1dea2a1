package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"
	"recorder-whisper/internal/api/v1/dto"
	"recorder-whisper/internal/app/converter/export"
	"recorder-whisper/internal/app/model"
	"recorder-whisper/internal/app/repository"
	"recorder-whisper/internal/app/repository/csvfile"
)

// DefaultHistoryLimit is the page size when none is given.
const DefaultHistoryLimit = 50

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

type historyService struct {
	store repository.HistoryStore
}

// NewHistoryService creates a history service over store.
func NewHistoryService(store repository.HistoryStore) HistoryService {
	return &historyService{store: store}
}

func (s *historyService) ListHistory(ctx context.Context, query dto.ListHistoryQuery) (*dto.HistoryResponse, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	limit := query.Limit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	page, total := repository.Filter(records, query.Q, query.Offset, limit)
	return &dto.HistoryResponse{
		Data: lo.Map(page, func(r model.TranscriptionRecord, _ int) dto.HistoryRecord { return dto.FromRecord(r) }),
		Pagination: dto.Pagination{
			Total:  total,
			Limit:  limit,
			Offset: query.Offset,
		},
	}, nil
}

func (s *historyService) ExportHistory(ctx context.Context, format string, w io.Writer) error {
	records, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	switch format {
	case FormatXLSX:
		return export.WriteExcel(w, records)
	case FormatJSON:
		return json.NewEncoder(w).Encode(lo.Map(records, func(r model.TranscriptionRecord, _ int) dto.HistoryRecord { return dto.FromRecord(r) }))
	default:
		return csvfile.Encode(w, records)
	}
}
