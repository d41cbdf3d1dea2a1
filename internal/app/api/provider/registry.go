package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"recorder-whisper/internal/app/api"
	apperrors "recorder-whisper/internal/app/errors"
)

// Settings is the free-form provider block of the transcription config.
type Settings map[string]interface{}

// String returns the string stored under key, or fallback.
func (s Settings) String(key, fallback string) string {
	if v, ok := s[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Float returns the number stored under key, or fallback. YAML may decode
// whole numbers as int.
func (s Settings) Float(key string, fallback float64) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}

// Bool returns the boolean stored under key, or fallback.
func (s Settings) Bool(key string, fallback bool) bool {
	if v, ok := s[key].(bool); ok {
		return v
	}
	return fallback
}

// Duration accepts "30s" style strings or a number of seconds.
func (s Settings) Duration(key string, fallback time.Duration) time.Duration {
	switch v := s[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	}
	return fallback
}

// Creator builds a transcriber for a fixed language.
type Creator func(language string, settings Settings) (api.Transcriber, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Creator)
)

// RegisterProvider registers a provider creator function. Provider packages
// call it from init.
func RegisterProvider(providerType string, creator Creator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[providerType] = creator
}

// GetProviderCreator gets a provider creator function
func GetProviderCreator(providerType string) (Creator, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	creator, exists := registry[providerType]
	return creator, exists
}

// ListRegisteredProviders returns the registered provider types, sorted.
func ListRegisteredProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]string, 0, len(registry))
	for providerType := range registry {
		types = append(types, providerType)
	}
	sort.Strings(types)
	return types
}

// Create builds the transcriber registered under providerType.
func Create(providerType, language string, settings map[string]interface{}) (api.Transcriber, error) {
	creator, ok := GetProviderCreator(providerType)
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrProviderNotFound, "%q (registered: %s)",
			providerType, strings.Join(ListRegisteredProviders(), ", "))
	}
	if settings == nil {
		settings = Settings{}
	}

	transcriber, err := creator(language, Settings(settings))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", providerType, err)
	}
	return transcriber, nil
}
