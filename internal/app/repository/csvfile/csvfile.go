package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"recorder-whisper/internal/app/model"
	"recorder-whisper/internal/app/util/files"
)

// TimestampLayout is how Encode writes timestamps. It carries the zone offset.
const TimestampLayout = time.RFC3339Nano

// legacyLayouts are zone-less timestamps from older history files, read in
// local time.
var legacyLayouts = []string{"2006-01-02 15:04:05.000000", "2006-01-02 15:04:05"}

// Store keeps the history in a single CSV file with a header row.
//
// Append reads the whole file, adds one row and rewrites the whole file. Two
// overlapping Appends can therefore lose one record; wrap the store with
// repository.NewSerializedStore or redislock when writers may overlap.
type Store struct {
	path string
}

// New returns a store backed by path. The file is created on first Append.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads every row. A missing file yields zero rows.
func (s *Store) Load(ctx context.Context) ([]model.TranscriptionRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.TranscriptionRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	return decode(f)
}

// Append adds record by rewriting the full file.
func (s *Store) Append(ctx context.Context, record model.TranscriptionRecord) error {
	records, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return s.rewrite(append(records, record))
}

// Close is a no-op; the file is not held open between calls.
func (s *Store) Close() error {
	return nil
}

// rewrite replaces the file with records. The new content is written to a
// sibling temp file and renamed over the old one.
func (s *Store) rewrite(records []model.TranscriptionRecord) error {
	dir := filepath.Dir(s.path)
	if err := files.EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create history temp file: %w", err)
	}
	tmpPath := tmp.Name()

	err = Encode(tmp, records)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write history file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}

// Encode writes records in the history file layout, header first.
func Encode(w io.Writer, records []model.TranscriptionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.HistoryColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.AudioURL, r.Transcription, r.Timestamp.Format(TimestampLayout)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func decode(r io.Reader) ([]model.TranscriptionRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return []model.TranscriptionRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, column := range model.HistoryColumns {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("history file is missing column %q", column)
		}
	}

	records := make([]model.TranscriptionRecord, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read history row %d: %w", line, err)
		}

		field := func(column string) string {
			if i := index[column]; i < len(row) {
				return row[i]
			}
			return ""
		}

		ts, err := parseTimestamp(field(model.ColumnTimestamp))
		if err != nil {
			return nil, fmt.Errorf("history row %d: %w", line, err)
		}
		records = append(records, model.TranscriptionRecord{
			AudioURL:      field(model.ColumnAudioURL),
			Transcription: field(model.ColumnTranscription),
			Timestamp:     ts,
		})
	}
	return records, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(TimestampLayout, value); err == nil {
		return ts, nil
	}
	for _, layout := range legacyLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
