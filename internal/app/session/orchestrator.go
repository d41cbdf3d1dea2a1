package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"recorder-whisper/internal/app/api"
	"recorder-whisper/internal/app/audio"
	apperrors "recorder-whisper/internal/app/errors"
	"recorder-whisper/internal/app/metrics"
	"recorder-whisper/internal/app/model"
	"recorder-whisper/internal/app/repository"
	"recorder-whisper/internal/app/util/files"
)

// State is a step of one run. A run moves forward through these in order,
// skipping Converted for WAV input, and always ends in Cleaned.
type State string

const (
	StateIdle        State = "idle"
	StateStaged      State = "staged"
	StateConverted   State = "converted"
	StateTranscribed State = "transcribed"
	StatePersisted   State = "persisted"
	StateCleaned     State = "cleaned"
)

// Level of an inline message.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Message is a status line shown to the user next to the result.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Result is everything one run produced. Err is the first failure; the
// messages carry every failure in user-facing form.
type Result struct {
	Transcript string
	Record     *model.TranscriptionRecord
	Messages   []Message
	States     []State
	Err        error
}

// Persisted reports whether the run added a history record.
func (r *Result) Persisted() bool {
	return r.Record != nil
}

func (r *Result) info(format string, args ...interface{}) {
	r.Messages = append(r.Messages, Message{Level: LevelInfo, Text: fmt.Sprintf(format, args...)})
}

func (r *Result) fail(prefix string, err error) {
	r.Messages = append(r.Messages, Message{Level: LevelError, Text: fmt.Sprintf("%s: %v", prefix, err)})
	if r.Err == nil {
		r.Err = err
	}
}

func (r *Result) enter(state State) {
	r.States = append(r.States, state)
}

// Orchestrator runs stage, convert, transcribe, persist and cleanup for one
// request at a time. It holds no per-request state, so one instance serves
// concurrent requests.
type Orchestrator struct {
	converter   audio.Converter
	transcriber api.Transcriber
	history     repository.HistoryStore
	fetcher     Fetcher
	logger      *zap.Logger
	tempDir     string
	sniff       bool
	now         func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTempDir stages files under dir instead of os.TempDir().
func WithTempDir(dir string) Option {
	return func(o *Orchestrator) { o.tempDir = dir }
}

// WithContentSniffing makes format detection look at the staged bytes even
// when a type was declared.
func WithContentSniffing(enabled bool) Option {
	return func(o *Orchestrator) { o.sniff = enabled }
}

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator wires the pipeline.
func NewOrchestrator(
	converter audio.Converter,
	transcriber api.Transcriber,
	history repository.HistoryStore,
	fetcher Fetcher,
	logger *zap.Logger,
	opts ...Option,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		converter:   converter,
		transcriber: transcriber,
		history:     history,
		fetcher:     fetcher,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// History returns the store records are appended to.
func (o *Orchestrator) History() repository.HistoryStore {
	return o.history
}

// Run processes one source. It never panics on pipeline failures and always
// removes the files it staged before returning.
func (o *Orchestrator) Run(ctx context.Context, src Source) *Result {
	result := &Result{}
	result.enter(StateIdle)

	if err := src.Validate(); err != nil {
		result.fail("Error during processing", err)
		return result
	}

	kind := src.Kind()
	logger := o.logger.With(zap.String("source", string(kind)))
	metrics.RecordRunStart()

	var stagedPath, wavPath string
	defer func() {
		o.cleanup(logger, result, stagedPath, wavPath)
		status := metrics.StatusSuccess
		switch {
		case result.Err != nil:
			status = metrics.StatusError
		case result.Transcript == "":
			status = metrics.StatusEmpty
		}
		metrics.RecordRunEnd(string(kind), status)
	}()

	stagedPath, format, err := o.stage(ctx, src)
	if err != nil {
		logger.Error("staging failed", zap.Error(err))
		result.fail("Error during processing", err)
		return result
	}
	result.enter(StateStaged)
	logger.Debug("audio staged", zap.String("path", stagedPath), zap.String("format", string(format)))

	wavPath = stagedPath
	if format == audio.FormatMP3 {
		result.info("Converting MP3 to WAV...")
		wavPath = files.SiblingWithExt(stagedPath, audio.FormatWAV.Ext())

		start := time.Now()
		err := o.converter.ConvertToWav(ctx, stagedPath, wavPath)
		metrics.RecordStage("convert", statusOf(err), time.Since(start))
		if err != nil {
			logger.Error("conversion failed", zap.Error(err))
			result.fail("Error during conversion", err)
			return result
		}
		result.enter(StateConverted)
		result.info("Audio converted to WAV: %s", wavPath)
	}

	start := time.Now()
	text, err := o.transcriber.Transcript(ctx, wavPath)
	metrics.RecordStage("transcribe", statusOf(err), time.Since(start))
	if err != nil {
		logger.Error("transcription failed", zap.Error(err))
		if apperrors.KindOf(err) == apperrors.KindUnknown {
			err = apperrors.Transcription(err, "transcription failed")
		}
		result.fail("Error during transcription", err)
		return result
	}
	result.enter(StateTranscribed)

	if text == "" {
		logger.Info("transcription returned no text")
		result.info("No speech was recognised, nothing was saved.")
		return result
	}
	result.Transcript = text

	audioURL := src.URL
	if kind == KindUpload {
		audioURL = wavPath
	}
	record := model.NewTranscriptionRecord(audioURL, text, o.now())

	start = time.Now()
	err = o.history.Append(ctx, record)
	metrics.RecordStage("persist", statusOf(err), time.Since(start))
	metrics.RecordHistoryAppend(statusOf(err))
	if err != nil {
		logger.Error("failed to save transcription", zap.Error(err))
		result.fail("Error during processing", apperrors.IO(err, "failed to save transcription"))
		return result
	}
	result.Record = &record
	result.enter(StatePersisted)

	logger.Info("transcription saved", zap.String("audio_url", audioURL), zap.Int("chars", len(text)))
	return result
}

// stage writes the source bytes to a temp file whose extension matches the
// detected format.
func (o *Orchestrator) stage(ctx context.Context, src Source) (string, audio.Format, error) {
	start := time.Now()
	path, format, err := o.stageSource(ctx, src)
	metrics.RecordStage("stage", statusOf(err), time.Since(start))
	return path, format, err
}

func (o *Orchestrator) stageSource(ctx context.Context, src Source) (string, audio.Format, error) {
	var (
		body     io.Reader
		declared string
	)

	if src.Kind() == KindUpload {
		body = src.Upload.Body
		declared = src.Upload.ContentType
	} else {
		rc, contentType, err := o.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			return "", "", err
		}
		defer rc.Close()
		body = rc
		declared = contentType
	}

	// the declared type picks the staging suffix; the bytes may still change it
	guess := audio.DetectFormat(declared, "", false)

	path, _, err := files.StageTempFile(o.tempDir, "scribe-*"+guess.Ext(), body)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnknown {
			err = apperrors.IO(err, "failed to stage audio")
		}
		return "", "", err
	}

	format := audio.DetectFormat(declared, path, o.sniff)
	if format.Ext() != filepath.Ext(path) {
		renamed := files.SiblingWithExt(path, format.Ext())
		if err := os.Rename(path, renamed); err != nil {
			os.Remove(path)
			return "", "", apperrors.IO(err, "failed to stage audio")
		}
		path = renamed
	}
	return path, format, nil
}

// cleanup removes the staged and converted files. Removal failures become
// IO errors on the result.
func (o *Orchestrator) cleanup(logger *zap.Logger, result *Result, paths ...string) {
	start := time.Now()
	var failed error
	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		if err := files.RemoveIfExists(path); err != nil {
			ioErr := apperrors.IO(err, "failed to remove temporary file %s", path)
			logger.Error("cleanup failed", zap.String("path", path), zap.Error(err))
			result.fail("Error during cleanup", ioErr)
			failed = ioErr
		}
	}
	metrics.RecordStage("cleanup", statusOf(failed), time.Since(start))
	result.enter(StateCleaned)
}

func statusOf(err error) string {
	if err != nil {
		return metrics.StatusError
	}
	return metrics.StatusSuccess
}
