package converter

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"recorder-whisper/internal/app/model"
	"recorder-whisper/internal/app/session"
	"recorder-whisper/internal/app/util/files"
)

// Runner is the part of the pipeline a batch drives.
type Runner interface {
	Run(ctx context.Context, src session.Source) *session.Result
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Path       string
	Transcript string
	Err        error
}

// Summary collects the outcome of a batch, in input order.
type Summary struct {
	Results []FileResult
}

// Succeeded returns the files that produced a saved transcript.
func (s Summary) Succeeded() []FileResult {
	return lo.Filter(s.Results, func(r FileResult, _ int) bool { return r.Err == nil && r.Transcript != "" })
}

// Failed returns the files whose run reported an error.
func (s Summary) Failed() []FileResult {
	return lo.Filter(s.Results, func(r FileResult, _ int) bool { return r.Err != nil })
}

// Empty returns the files in which no speech was recognised.
func (s Summary) Empty() []FileResult {
	return lo.Filter(s.Results, func(r FileResult, _ int) bool { return r.Err == nil && r.Transcript == "" })
}

// Converter transcribes local audio files through the same pipeline the web
// page uses, so every file is staged, converted, transcribed and saved to
// history exactly like an upload.
type Converter struct {
	runner   Runner
	logger   *zap.Logger
	progress *ProgressManager
}

// NewConverter creates a batch converter. A nil progress manager disables
// progress output.
func NewConverter(runner Runner, logger *zap.Logger, progress *ProgressManager) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if progress == nil {
		progress = NewProgressManager(ProgressConfig{})
	}
	return &Converter{runner: runner, logger: logger, progress: progress}
}

// Close stops the progress display.
func (c *Converter) Close() error {
	c.progress.Shutdown()
	return nil
}

// TranscribeFile runs one local file through the pipeline.
func (c *Converter) TranscribeFile(ctx context.Context, path string) FileResult {
	src, f, err := session.FileSource(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	defer f.Close()

	result := c.runner.Run(ctx, src)
	return FileResult{Path: path, Transcript: result.Transcript, Err: result.Err}
}

// TranscribeFiles processes paths with at most parallel runs in flight.
func (c *Converter) TranscribeFiles(ctx context.Context, paths []string, parallel int) Summary {
	if parallel < 1 {
		parallel = 1
	}
	summary := Summary{Results: make([]FileResult, len(paths))}
	if len(paths) == 0 {
		return summary
	}

	bar := c.progress.CreateBar(len(paths), "Transcribing")
	defer c.progress.Wait()

	var wg sync.WaitGroup
	sem := make(chan struct{}, parallel)

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer bar.Increment()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				summary.Results[i] = FileResult{Path: path, Err: err}
				return
			}

			res := c.TranscribeFile(ctx, path)
			summary.Results[i] = res
			if res.Err != nil {
				c.logger.Warn("file failed", zap.String("path", path), zap.Error(res.Err))
			} else {
				c.logger.Info("file transcribed", zap.String("path", path), zap.Int("chars", len(res.Transcript)))
			}
		}(i, path)
	}
	wg.Wait()
	return summary
}

// TranscribeDir processes up to limit mp3/wav files in dir, oldest first.
// A limit of zero or less means all files.
func (c *Converter) TranscribeDir(ctx context.Context, dir string, limit, parallel int) (Summary, error) {
	fileInfos, err := files.GetAllAudioFiles(dir)
	if err != nil {
		return Summary{}, err
	}
	if limit > 0 && len(fileInfos) > limit {
		fileInfos = fileInfos[:limit]
	}

	paths := lo.Map(fileInfos, func(f model.FileInfo, _ int) string { return f.FullPath })
	c.logger.Info("starting batch", zap.String("dir", dir), zap.Int("files", len(paths)))

	summary := c.TranscribeFiles(ctx, paths, parallel)
	c.logger.Info("batch finished",
		zap.Int("succeeded", len(summary.Succeeded())),
		zap.Int("empty", len(summary.Empty())),
		zap.Int("failed", len(summary.Failed())),
	)
	return summary, nil
}

// String renders a one-line summary for the CLI.
func (s Summary) String() string {
	return fmt.Sprintf("%d transcribed, %d without speech, %d failed",
		len(s.Succeeded()), len(s.Empty()), len(s.Failed()))
}
