package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	v1routes "recorder-whisper/internal/api/v1/routes"
	"recorder-whisper/internal/api/v1/services"
	"recorder-whisper/internal/app/api"
	"recorder-whisper/internal/app/api/provider"
	"recorder-whisper/internal/app/audio"
	"recorder-whisper/internal/app/logging"
	"recorder-whisper/internal/app/metrics"
	"recorder-whisper/internal/app/repository"
	"recorder-whisper/internal/app/repository/csvfile"
	"recorder-whisper/internal/app/repository/pg"
	"recorder-whisper/internal/app/repository/redislock"
	"recorder-whisper/internal/app/repository/sqlite"
	"recorder-whisper/internal/app/session"
	"recorder-whisper/internal/app/storage"
	"recorder-whisper/internal/app/temporal/activities"
	"recorder-whisper/internal/app/temporal/pkg/common"
	"recorder-whisper/internal/app/temporal/worker"
	"recorder-whisper/internal/config"
)

func provideLogger(cfg *config.AppConfig) (*zap.Logger, func(), error) {
	logger, err := logging.ForEnvironment(cfg.Server.Environment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideServerConfig(cfg *config.AppConfig) config.ServerConfig {
	return cfg.Server
}

func provideRegistry() *prometheus.Registry {
	return metrics.NewRegistry()
}

// provideTranscriber builds the configured provider; the provider packages
// register themselves from cmd/scribe.
func provideTranscriber(cfg *config.AppConfig) (api.Transcriber, error) {
	transcriber, err := provider.Create(cfg.Transcription.Provider, cfg.Transcription.Language, cfg.Transcription.Settings)
	if err != nil {
		return nil, err
	}
	return metrics.InstrumentTranscriber(cfg.Transcription.Provider, transcriber), nil
}

func provideConverter(cfg *config.AppConfig) audio.Converter {
	converter := audio.NewFFmpegConverter(cfg.Converter.FFmpegPath)
	converter.SampleRate = cfg.Converter.SampleRate
	converter.Channels = cfg.Converter.Channels
	return converter
}

// provideFetcher only downloads recordings the configured recording store
// handed out, capped at the upload size limit.
func provideFetcher(cfg *config.AppConfig) session.Fetcher {
	return session.NewHTTPFetcher(0,
		session.WithAllowedPrefixes(recordingURLPrefix(cfg)),
		session.WithMaxBytes(cfg.Server.MaxUploadMB<<20),
	)
}

// recordingURLPrefix is where the recording store's URLs point: the local
// /recordings/ route, or the object prefix in the MinIO bucket.
func recordingURLPrefix(cfg *config.AppConfig) string {
	if cfg.Recordings.Backend == config.RecordingsMinio {
		scheme := "http"
		if cfg.Recordings.Minio.UseSSL {
			scheme = "https"
		}
		return scheme + "://" + cfg.Recordings.Minio.Endpoint + "/" + cfg.Recordings.Minio.Bucket + "/" + storage.RecordingPrefix
	}
	return cfg.Server.BaseURL() + "/recordings/"
}

// provideHistoryStore opens the configured backend and wraps it with the
// configured append lock.
func provideHistoryStore(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (repository.HistoryStore, func(), error) {
	var store repository.HistoryStore
	switch cfg.History.Backend {
	case config.HistorySQLite:
		db, err := sqlite.NewSQLiteDB(ctx, cfg.History.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store = db
	case config.HistoryPostgres:
		db, err := pg.NewPostgresDB(cfg.History.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		store = db
	default:
		store = csvfile.New(cfg.History.CSVPath)
	}

	var redisClient *redis.Client
	switch cfg.History.Lock {
	case config.LockMutex:
		store = repository.NewSerializedStore(store)
	case config.LockRedis:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redislock.New(redisClient, store,
			redislock.WithKey(cfg.Redis.LockKey),
			redislock.WithTTL(cfg.Redis.LockTTL),
			redislock.WithLogger(logger),
		)
	}

	logger.Info("History store ready",
		zap.String("backend", cfg.History.Backend),
		zap.String("lock", cfg.History.Lock),
	)

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close history store", zap.Error(err))
		}
		if redisClient != nil {
			redisClient.Close()
		}
	}
	return store, cleanup, nil
}

func provideRecordingStore(ctx context.Context, cfg *config.AppConfig) (storage.RecordingStore, error) {
	if cfg.Recordings.Backend == config.RecordingsMinio {
		client, err := storage.NewMinioClient(cfg.Recordings.Minio)
		if err != nil {
			return nil, err
		}
		store := storage.NewMinioRecordingStore(client, cfg.Recordings.Minio.Bucket, cfg.Recordings.Minio.URLExpiry)
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return storage.NewLocalRecordingStore(cfg.Recordings.Dir, cfg.Server.BaseURL())
}

func provideOrchestrator(
	cfg *config.AppConfig,
	converter audio.Converter,
	transcriber api.Transcriber,
	history repository.HistoryStore,
	fetcher session.Fetcher,
	logger *zap.Logger,
) *session.Orchestrator {
	return session.NewOrchestrator(converter, transcriber, history, fetcher, logger,
		session.WithTempDir(cfg.TempDir),
		session.WithContentSniffing(cfg.Converter.SniffContent),
	)
}

func provideServiceContainer(
	cfg *config.AppConfig,
	orchestrator *session.Orchestrator,
	history repository.HistoryStore,
	recordings storage.RecordingStore,
) *v1routes.ServiceContainer {
	return &v1routes.ServiceContainer{
		TranscriptionService: services.NewTranscriptionService(orchestrator),
		HistoryService:       services.NewHistoryService(history),
		RecordingService:     services.NewRecordingService(recordings),
		MaxUploadMB:          cfg.Server.MaxUploadMB,
	}
}

func provideTemporalClient(cfg *config.AppConfig, logger *zap.Logger) (client.Client, func(), error) {
	c, err := common.NewTemporalClient(cfg.Temporal, logger)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

func provideActivities(orchestrator *session.Orchestrator) *activities.TranscribeActivities {
	return activities.NewTranscribeActivities(orchestrator)
}

func provideWorker(cfg *config.AppConfig, c client.Client, acts *activities.TranscribeActivities) sdkworker.Worker {
	return worker.New(c, cfg.Temporal.TaskQueue, acts, cfg.Temporal.MaxConcurrent)
}
