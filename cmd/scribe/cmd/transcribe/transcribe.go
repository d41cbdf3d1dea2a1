package transcribe

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"recorder-whisper/cmd/scribe/cmd/cmdutil"
	"recorder-whisper/internal/app"
	"recorder-whisper/internal/app/converter"
	"recorder-whisper/internal/app/temporal/activities"
	"recorder-whisper/internal/app/temporal/pkg/command"
	"recorder-whisper/internal/app/util/files"
	"recorder-whisper/internal/config"
)

var audioDir string
var limit int
var parallel int
var showProgress bool
var async bool
var wait bool

func init() {
	Cmd.Flags().StringVarP(&audioDir, "dir", "d", "", "transcribe the mp3/wav files in this directory, oldest first")
	Cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum files taken from --dir (0 for all)")
	Cmd.Flags().IntVarP(&parallel, "parallel", "j", 1, "files transcribed at the same time")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "force the progress bar even without a terminal")
	Cmd.Flags().BoolVar(&async, "async", false, "submit each file to Temporal instead of running locally")
	Cmd.Flags().BoolVar(&wait, "wait", true, "with --async, wait for the workflows and print their transcripts")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe [file...]",
	Short: "Transcribe local mp3 or wav files and append them to the history",
	Long: `Transcribe local mp3 or wav files and append them to the history

- Files are given as arguments or collected from --dir
- mp3 files are converted to wav with ffmpeg first
- With --async each file becomes a Temporal workflow run by 'scribe worker'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := collectPaths(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no audio files given: pass files or --dir")
		}

		ctx, stop := cmdutil.SignalContext()
		defer stop()

		if async {
			return submit(ctx, cmd.OutOrStdout(), cmdutil.Config(), paths)
		}
		return runLocal(ctx, cmd.OutOrStdout(), cmdutil.Config(), paths)
	},
}

func collectPaths(args []string) ([]string, error) {
	paths := lo.Filter(args, func(p string, _ int) bool { return files.IsAudioFile(p) })
	if skipped := len(args) - len(paths); skipped > 0 {
		zap.L().Warn("Skipping files that are not mp3 or wav", zap.Int("count", skipped))
	}
	if audioDir == "" {
		return paths, nil
	}

	fileInfos, err := files.GetAllAudioFiles(audioDir)
	if err != nil {
		return nil, err
	}
	for i, f := range fileInfos {
		if limit > 0 && i >= limit {
			break
		}
		paths = append(paths, f.FullPath)
	}
	return paths, nil
}

func runLocal(ctx context.Context, out io.Writer, cfg *config.AppConfig, paths []string) error {
	progress := converter.NewProgressManager(converter.ProgressConfig{
		Enabled: converter.ShouldShowProgress(showProgress),
		Writer:  os.Stderr,
	})
	defer progress.Shutdown()

	conv, cleanup, err := app.InitializeConverter(ctx, cfg, progress)
	if err != nil {
		return fmt.Errorf("failed to initialise converter: %w", err)
	}
	defer cleanup()
	defer conv.Close()

	summary := conv.TranscribeFiles(ctx, paths, parallel)
	for _, res := range summary.Results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(out, "%s: error: %v\n", res.Path, res.Err)
		case res.Transcript == "":
			fmt.Fprintf(out, "%s: no speech detected\n", res.Path)
		default:
			fmt.Fprintf(out, "%s:\n%s\n", res.Path, res.Transcript)
		}
	}
	fmt.Fprintln(out, summary.String())

	if failed := len(summary.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func submit(ctx context.Context, out io.Writer, cfg *config.AppConfig, paths []string) error {
	c, cleanup, err := app.InitializeTemporalClient(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	failed := 0
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		run, err := command.Submit(ctx, c, cfg.Temporal.TaskQueue, activities.TranscriptionRequest{FilePath: abs})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: submitted as %s\n", path, run.GetID())
		if !wait {
			continue
		}

		result, err := command.WaitForResult(ctx, run)
		if err != nil {
			failed++
			fmt.Fprintf(out, "%s: error: %v\n", path, err)
			continue
		}
		if result.Transcript == "" {
			fmt.Fprintf(out, "%s: no speech detected\n", path)
			continue
		}
		fmt.Fprintf(out, "%s (%s):\n%s\n", path, result.ProcessingTime, result.Transcript)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(paths))
	}
	return nil
}
