package worker

import (
	"fmt"

	"github.com/spf13/cobra"
	sdkworker "go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"recorder-whisper/cmd/scribe/cmd/cmdutil"
	"recorder-whisper/internal/app"
)

var taskQueue string
var maxConcurrent int

func init() {
	Cmd.Flags().StringVarP(&taskQueue, "task-queue", "q", "", "Temporal task queue, overrides temporal.task_queue")
	Cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "concurrent transcriptions, overrides temporal.max_concurrent")
}

// Cmd represents the worker command
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a Temporal worker that transcribes submitted jobs",
	Long: `Run a Temporal worker that transcribes submitted jobs

- Polls the configured task queue for transcription workflows
- Each job runs the same pipeline as the page and appends to the same history`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cmdutil.Config()
		if taskQueue != "" {
			cfg.Temporal.TaskQueue = taskQueue
		}
		if maxConcurrent > 0 {
			cfg.Temporal.MaxConcurrent = maxConcurrent
		}

		ctx, stop := cmdutil.SignalContext()
		defer stop()

		w, cleanup, err := app.InitializeWorker(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialise worker: %w", err)
		}
		defer cleanup()

		cmdutil.Logger().Info("Worker starting",
			zap.String("host_port", cfg.Temporal.HostPort),
			zap.String("task_queue", cfg.Temporal.TaskQueue),
			zap.Int("max_concurrent", cfg.Temporal.MaxConcurrent),
		)
		return w.Run(sdkworker.InterruptCh())
	},
}
