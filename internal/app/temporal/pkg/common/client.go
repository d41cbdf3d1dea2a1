package common

import (
	"fmt"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
	"recorder-whisper/internal/config"
)

// NewTemporalClient creates a new Temporal client with the given configuration
func NewTemporalClient(cfg config.TemporalConfig, logger *zap.Logger) (client.Client, error) {
	opts := client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
	}
	if logger != nil {
		opts.Logger = NewZapAdapter(logger)
	}

	c, err := client.Dial(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}
	return c, nil
}
