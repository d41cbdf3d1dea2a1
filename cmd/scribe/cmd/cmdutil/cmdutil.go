// Package cmdutil holds what every scribe subcommand shares: the loaded
// configuration and the process logger.
package cmdutil

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"recorder-whisper/internal/app/logging"
	"recorder-whisper/internal/config"
)

var (
	// ConfigPath is bound to the --config flag.
	ConfigPath string
	// Verbose is bound to the --verbose flag.
	Verbose bool

	cfg    *config.AppConfig
	logger *zap.Logger
)

// Setup loads .env and the config file, validates it and installs the
// global logger.
func Setup() error {
	loaded, apiKeys, err := config.InitializeConfig(ConfigPath)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if Verbose {
		loaded.Server.Environment = "development"
	}

	l, err := logging.ForEnvironment(loaded.Server.Environment)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(l)

	if apiKeys.OpenAI == "" && loaded.Transcription.Provider == "openai" {
		l.Warn("OPENAI_API_KEY is not set; the openai provider needs it unless api_key is configured")
	}
	if apiKeys.Gemini == "" && loaded.Transcription.Provider == "gemini" {
		l.Warn("GEMINI_API_KEY is not set; the gemini provider needs it unless api_key is configured")
	}

	cfg = loaded
	logger = l
	return nil
}

// Teardown flushes the logger.
func Teardown() {
	if logger != nil {
		_ = logger.Sync()
	}
}

// Config returns the configuration loaded by Setup.
func Config() *config.AppConfig {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
