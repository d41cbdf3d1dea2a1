package serve

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"recorder-whisper/cmd/scribe/cmd/cmdutil"
	"recorder-whisper/internal/app"
)

var port string
var shutdownTimeout time.Duration

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides server.port")
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "how long in-flight requests get on shutdown")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recorder page and the transcription API",
	Long: `Serve the recorder page and the transcription API

- GET / renders the recorder, the upload form and the history table
- /api/v1 exposes uploads, recorded transcriptions, history and export
- /metrics, /health and /swagger are served alongside`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cmdutil.Config()
		if port != "" {
			cfg.Server.Port = port
		}
		logger := cmdutil.Logger()

		ctx, stop := cmdutil.SignalContext()
		defer stop()

		srv, cleanup, err := app.InitializeServer(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialise server: %w", err)
		}
		defer cleanup()

		errCh := srv.Start()
		select {
		case err := <-errCh:
			if err != nil {
				return err
			}
		case <-ctx.Done():
			logger.Info("Received shutdown signal")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown incomplete", zap.Error(err))
			return err
		}
		return nil
	},
}
