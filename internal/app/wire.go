//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"
	"recorder-whisper/internal/api/server"
	"recorder-whisper/internal/app/converter"
	"recorder-whisper/internal/app/repository"
	"recorder-whisper/internal/app/session"
	"recorder-whisper/internal/config"
)

var pipelineSet = wire.NewSet(
	provideLogger,
	provideTranscriber,
	provideConverter,
	provideFetcher,
	provideHistoryStore,
	provideOrchestrator,
)

// InitializeServer builds the HTTP server with the page, API and metrics.
func InitializeServer(ctx context.Context, cfg *config.AppConfig) (*server.Server, func(), error) {
	wire.Build(
		pipelineSet,
		provideServerConfig,
		provideRegistry,
		provideRecordingStore,
		provideServiceContainer,
		server.NewServer,
	)
	return nil, nil, nil
}

// InitializeConverter builds the batch converter used by the transcribe command.
func InitializeConverter(ctx context.Context, cfg *config.AppConfig, progress *converter.ProgressManager) (*converter.Converter, func(), error) {
	wire.Build(
		pipelineSet,
		converter.NewConverter,
		wire.Bind(new(converter.Runner), new(*session.Orchestrator)),
	)
	return nil, nil, nil
}

// InitializeHistoryStore opens the configured history store with its lock.
func InitializeHistoryStore(ctx context.Context, cfg *config.AppConfig) (repository.HistoryStore, func(), error) {
	wire.Build(provideLogger, provideHistoryStore)
	return nil, nil, nil
}

// InitializeWorker builds a Temporal worker running the pipeline.
func InitializeWorker(ctx context.Context, cfg *config.AppConfig) (sdkworker.Worker, func(), error) {
	wire.Build(
		pipelineSet,
		provideTemporalClient,
		provideActivities,
		provideWorker,
	)
	return nil, nil, nil
}

// InitializeTemporalClient dials Temporal for job submission.
func InitializeTemporalClient(cfg *config.AppConfig) (client.Client, func(), error) {
	wire.Build(provideLogger, provideTemporalClient)
	return nil, nil, nil
}
