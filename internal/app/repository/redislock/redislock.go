package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"recorder-whisper/internal/app/model"
	"recorder-whisper/internal/app/repository"
)

const (
	defaultKey          = "scribe:history:lock"
	defaultTTL          = 10 * time.Second
	defaultPollInterval = 50 * time.Millisecond
)

// ErrNotOwner is returned when the lock expired and was taken by another
// holder before it was released.
var ErrNotOwner = errors.New("history lock no longer held")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Store serialises Append across processes that share one history file by
// holding a redis key for the duration of the read-modify-rewrite.
type Store struct {
	client       *redis.Client
	inner        repository.HistoryStore
	key          string
	ttl          time.Duration
	pollInterval time.Duration
	logger       *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the lock key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithTTL sets how long a held lock survives a crashed holder.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithPollInterval sets the wait between acquisition attempts.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Store) {
		if interval > 0 {
			s.pollInterval = interval
		}
	}
}

// WithLogger sets the logger used for lock warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wraps inner with a redis lock.
func New(client *redis.Client, inner repository.HistoryStore, opts ...Option) *Store {
	s := &Store{
		client:       client,
		inner:        inner,
		key:          defaultKey,
		ttl:          defaultTTL,
		pollInterval: defaultPollInterval,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Load(ctx context.Context) ([]model.TranscriptionRecord, error) {
	return s.inner.Load(ctx)
}

// Append runs the wrapped Append while holding the lock. It blocks until the
// lock is acquired or ctx is done. Once the wrapped Append succeeded the
// record is stored, so a failed release is only logged.
func (s *Store) Append(ctx context.Context, record model.TranscriptionRecord) error {
	token, err := s.acquire(ctx)
	if err != nil {
		return err
	}

	appendErr := s.inner.Append(ctx, record)
	// release with a fresh context so a cancelled request still frees the key
	if err := s.release(context.WithoutCancel(ctx), token); err != nil {
		s.logger.Warn("History lock release failed",
			zap.String("key", s.key),
			zap.Duration("ttl", s.ttl),
			zap.Bool("appended", appendErr == nil),
			zap.Error(err))
	}
	return appendErr
}

// Close closes the wrapped store. The redis client is owned by the caller.
func (s *Store) Close() error {
	return s.inner.Close()
}

func (s *Store) acquire(ctx context.Context) (string, error) {
	token := uuid.NewString()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		ok, err := s.client.SetNX(ctx, s.key, token, s.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("failed to acquire history lock: %w", err)
		}
		if ok {
			return token, nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("waiting for history lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (s *Store) release(ctx context.Context, token string) error {
	n, err := releaseScript.Run(ctx, s.client, []string{s.key}, token).Int()
	if err != nil {
		return fmt.Errorf("failed to release history lock: %w", err)
	}
	if n == 0 {
		return ErrNotOwner
	}
	return nil
}
