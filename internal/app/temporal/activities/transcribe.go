package activities

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	apperrors "recorder-whisper/internal/app/errors"
	"recorder-whisper/internal/app/session"
)

// TranscribeActivityName is the registered name of TranscribeActivities.Transcribe.
const TranscribeActivityName = "Transcribe"

// Runner is the pipeline an activity drives.
type Runner interface {
	Run(ctx context.Context, src session.Source) *session.Result
}

// TranscriptionRequest names the audio to transcribe: a recording URL, or a
// path readable by the worker.
type TranscriptionRequest struct {
	JobID    string `json:"job_id"`
	AudioURL string `json:"audio_url,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

// TranscriptionResult is what a finished run reports back.
type TranscriptionResult struct {
	JobID          string            `json:"job_id"`
	Transcript     string            `json:"transcript"`
	Persisted      bool              `json:"persisted"`
	Messages       []session.Message `json:"messages"`
	ProcessingTime time.Duration     `json:"processing_time"`
}

// TranscribeActivities runs the pipeline inside a Temporal worker.
type TranscribeActivities struct {
	runner            Runner
	heartbeatInterval time.Duration
}

// NewTranscribeActivities creates a new instance of transcription activities
func NewTranscribeActivities(runner Runner) *TranscribeActivities {
	return &TranscribeActivities{
		runner:            runner,
		heartbeatInterval: 10 * time.Second,
	}
}

// Transcribe runs one source through stage, convert, transcribe, persist and
// cleanup. Conversion failures are not retried; bad audio stays bad.
func (a *TranscribeActivities) Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Starting transcription", "jobId", req.JobID, "audioUrl", req.AudioURL, "file", req.FilePath)

	activity.RecordHeartbeat(ctx, fmt.Sprintf("Processing job: %s", req.JobID))
	startTime := time.Now()

	src, closer, err := a.source(req)
	if err != nil {
		return TranscriptionResult{JobID: req.JobID}, temporal.NewNonRetryableApplicationError(err.Error(), string(apperrors.KindOf(err)), err)
	}
	if closer != nil {
		defer closer()
	}

	ticker := time.NewTicker(a.heartbeatInterval)
	defer ticker.Stop()

	done := make(chan *session.Result, 1)
	go func() {
		done <- a.runner.Run(ctx, src)
	}()

	for {
		select {
		case result := <-done:
			out := TranscriptionResult{
				JobID:          req.JobID,
				Transcript:     result.Transcript,
				Persisted:      result.Persisted(),
				Messages:       result.Messages,
				ProcessingTime: time.Since(startTime),
			}
			// a failure after the record was saved must not trigger a retry
			if result.Err != nil && !out.Persisted {
				logger.Error("Transcription failed", "jobId", req.JobID, "error", result.Err)
				return out, toApplicationError(result.Err)
			}
			if result.Err != nil {
				logger.Warn("Transcription saved with errors", "jobId", req.JobID, "error", result.Err)
			}
			logger.Info("Transcription completed", "jobId", req.JobID, "persisted", out.Persisted, "duration", out.ProcessingTime)
			return out, nil

		case <-ticker.C:
			activity.RecordHeartbeat(ctx, fmt.Sprintf("Still processing job: %s", req.JobID))
		}
	}
}

func (a *TranscribeActivities) source(req TranscriptionRequest) (session.Source, func(), error) {
	switch {
	case req.AudioURL != "" && req.FilePath != "":
		return session.Source{}, nil, apperrors.InvalidField("request", "set either audio_url or file_path")
	case req.FilePath != "":
		src, f, err := session.FileSource(req.FilePath)
		if err != nil {
			return session.Source{}, nil, err
		}
		return src, func() { f.Close() }, nil
	case req.AudioURL != "":
		return session.Recorded(req.AudioURL), nil, nil
	}
	return session.Source{}, nil, apperrors.ErrNoSource
}

// toApplicationError marks errors that a retry cannot fix.
func toApplicationError(err error) error {
	kind := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindConversion, apperrors.KindConfig:
		return temporal.NewNonRetryableApplicationError(err.Error(), string(kind), err)
	}
	return temporal.NewApplicationError(err.Error(), string(kind), err)
}
