package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// History backends
const (
	HistoryCSV      = "csv"
	HistorySQLite   = "sqlite"
	HistoryPostgres = "postgres"
)

// History lock modes
const (
	LockNone  = "none"
	LockMutex = "mutex"
	LockRedis = "redis"
)

// Recording storage backends
const (
	RecordingsLocal = "local"
	RecordingsMinio = "minio"
)

// AppConfig is the whole application configuration, usually read from scribe.yaml.
type AppConfig struct {
	Server        ServerConfig        `yaml:"server"`
	History       HistoryConfig       `yaml:"history"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Converter     ConverterConfig     `yaml:"converter"`
	Recordings    RecordingsConfig    `yaml:"recordings"`
	Redis         RedisConfig         `yaml:"redis"`
	Temporal      TemporalConfig      `yaml:"temporal"`
	TempDir       string              `yaml:"temp_dir,omitempty"`
}

// ServerConfig represents API server configuration
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	PublicURL    string        `yaml:"public_url,omitempty"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	Environment  string        `yaml:"environment"`
	MaxUploadMB  int64         `yaml:"max_upload_mb"`
}

// HistoryConfig selects and configures the history store
type HistoryConfig struct {
	Backend     string `yaml:"backend"`
	CSVPath     string `yaml:"csv_path"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty"`
	Lock        string `yaml:"lock"`
}

// TranscriptionConfig selects the speech-to-text provider
type TranscriptionConfig struct {
	Provider string                 `yaml:"provider"`
	Language string                 `yaml:"language"`
	Settings map[string]interface{} `yaml:"settings,omitempty"`
}

// ConverterConfig configures the ffmpeg invocation
type ConverterConfig struct {
	FFmpegPath   string `yaml:"ffmpeg_path"`
	FFprobePath  string `yaml:"ffprobe_path"`
	SampleRate   int    `yaml:"sample_rate"`
	Channels     int    `yaml:"channels"`
	SniffContent bool   `yaml:"sniff_content"`
}

// RecordingsConfig configures where recorder-widget blobs are kept
type RecordingsConfig struct {
	Backend string      `yaml:"backend"`
	Dir     string      `yaml:"dir"`
	Minio   MinioConfig `yaml:"minio,omitempty"`
}

// MinioConfig holds object storage settings
type MinioConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	AccessKey string        `yaml:"access_key"`
	SecretKey string        `yaml:"secret_key"`
	Bucket    string        `yaml:"bucket"`
	UseSSL    bool          `yaml:"use_ssl"`
	URLExpiry time.Duration `yaml:"url_expiry"`
}

// RedisConfig holds the redis connection used by the history lock
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password,omitempty"`
	DB       int           `yaml:"db"`
	LockKey  string        `yaml:"lock_key"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

// TemporalConfig holds Temporal client configuration
type TemporalConfig struct {
	HostPort      string `yaml:"host_port"`
	Namespace     string `yaml:"namespace"`
	TaskQueue     string `yaml:"task_queue"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// Default returns the configuration used when no file is given.
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from a YAML file. An empty path yields defaults.
func Load(configPath string) (*AppConfig, error) {
	cfg := &AppConfig{}

	if configPath != "" {
		configPath = os.ExpandEnv(configPath)

		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg.expandEnvironmentVariables()
	cfg.applyEnvOverrides()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes cfg as YAML.
func Save(cfg *AppConfig, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(os.ExpandEnv(configPath), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *AppConfig) expandEnvironmentVariables() {
	c.History.PostgresDSN = os.ExpandEnv(c.History.PostgresDSN)
	c.Recordings.Minio.AccessKey = os.ExpandEnv(c.Recordings.Minio.AccessKey)
	c.Recordings.Minio.SecretKey = os.ExpandEnv(c.Recordings.Minio.SecretKey)
	c.Redis.Password = os.ExpandEnv(c.Redis.Password)

	for key, value := range c.Transcription.Settings {
		if str, ok := value.(string); ok {
			c.Transcription.Settings[key] = os.ExpandEnv(str)
		}
	}
}

func (c *AppConfig) applyEnvOverrides() {
	if port := strings.TrimSpace(os.Getenv("SCRIBE_PORT")); port != "" {
		c.Server.Port = port
	}
	if backend := strings.TrimSpace(os.Getenv("SCRIBE_HISTORY_BACKEND")); backend != "" {
		c.History.Backend = backend
	}
	if provider := strings.TrimSpace(os.Getenv("SCRIBE_PROVIDER")); provider != "" {
		c.Transcription.Provider = provider
	}
}

func (c *AppConfig) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8501"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 200
	}

	if c.History.Backend == "" {
		c.History.Backend = HistoryCSV
	}
	if c.History.CSVPath == "" {
		c.History.CSVPath = "audio.csv"
	}
	if c.History.SQLitePath == "" {
		c.History.SQLitePath = "data/history.db"
	}
	if c.History.Lock == "" {
		c.History.Lock = LockNone
	}

	if c.Transcription.Provider == "" {
		c.Transcription.Provider = "whisper_cpp"
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "en"
	}
	if c.Transcription.Settings == nil {
		c.Transcription.Settings = make(map[string]interface{})
	}

	if c.Converter.FFmpegPath == "" {
		c.Converter.FFmpegPath = "ffmpeg"
	}
	if c.Converter.FFprobePath == "" {
		c.Converter.FFprobePath = "ffprobe"
	}
	if c.Converter.SampleRate == 0 {
		c.Converter.SampleRate = 16000
	}
	if c.Converter.Channels == 0 {
		c.Converter.Channels = 1
	}

	if c.Recordings.Backend == "" {
		c.Recordings.Backend = RecordingsLocal
	}
	if c.Recordings.Dir == "" {
		c.Recordings.Dir = "data/recordings"
	}
	if c.Recordings.Minio.Bucket == "" {
		c.Recordings.Minio.Bucket = "scribe-recordings"
	}
	if c.Recordings.Minio.URLExpiry == 0 {
		c.Recordings.Minio.URLExpiry = time.Hour
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.LockKey == "" {
		c.Redis.LockKey = "scribe:history:lock"
	}
	if c.Redis.LockTTL == 0 {
		c.Redis.LockTTL = 10 * time.Second
	}

	if c.Temporal.HostPort == "" {
		c.Temporal.HostPort = "localhost:7233"
	}
	if c.Temporal.Namespace == "" {
		c.Temporal.Namespace = "default"
	}
	if c.Temporal.TaskQueue == "" {
		c.Temporal.TaskQueue = "scribe-transcriptions"
	}
	if c.Temporal.MaxConcurrent == 0 {
		c.Temporal.MaxConcurrent = 2
	}
}

// Validate checks the configuration for contradictions.
func (c *AppConfig) Validate() error {
	if err := ValidatePort(c.Server.Port); err != nil {
		return err
	}
	if err := ValidateTimeout(c.Server.ReadTimeout, "read"); err != nil {
		return err
	}
	if err := ValidateTimeout(c.Server.WriteTimeout, "write"); err != nil {
		return err
	}
	if err := ValidateOneOf(c.History.Backend, []string{HistoryCSV, HistorySQLite, HistoryPostgres}, "history.backend"); err != nil {
		return err
	}
	if err := ValidateOneOf(c.History.Lock, []string{LockNone, LockMutex, LockRedis}, "history.lock"); err != nil {
		return err
	}
	if c.History.Backend == HistoryPostgres && c.History.PostgresDSN == "" {
		return fmt.Errorf("history.postgres_dsn is required for the postgres backend")
	}
	if err := ValidateOneOf(c.Recordings.Backend, []string{RecordingsLocal, RecordingsMinio}, "recordings.backend"); err != nil {
		return err
	}
	if c.Recordings.Backend == RecordingsMinio && c.Recordings.Minio.Endpoint == "" {
		return fmt.Errorf("recordings.minio.endpoint is required for the minio backend")
	}
	if c.Converter.SampleRate <= 0 || c.Converter.Channels <= 0 {
		return fmt.Errorf("converter sample_rate and channels must be positive")
	}
	return nil
}

// BaseURL is where clients reach the server: PublicURL when set, otherwise
// localhost on the configured port.
func (s ServerConfig) BaseURL() string {
	if s.PublicURL != "" {
		return strings.TrimRight(s.PublicURL, "/")
	}
	return "http://localhost:" + s.Port
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}
