package whisper_server

import (
	"time"

	"recorder-whisper/internal/app/api"
	"recorder-whisper/internal/app/api/provider"
	apperrors "recorder-whisper/internal/app/errors"
)

func init() {
	provider.RegisterProvider("whisper_server", createWhisperServerProvider)
}

func createWhisperServerProvider(language string, settings provider.Settings) (api.Transcriber, error) {
	baseURL := settings.String("base_url", "")
	if baseURL == "" {
		return nil, apperrors.RequiredField("base_url")
	}

	headers := make(map[string]string)
	if token := settings.String("auth_token", ""); token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return NewWhisperServerProvider(WhisperServerConfig{
		BaseURL:        baseURL,
		InferencePath:  settings.String("inference_path", ""),
		Timeout:        settings.Duration("timeout", 60*time.Second),
		Language:       language,
		ResponseFormat: settings.String("response_format", "json"),
		Temperature:    settings.Float("temperature", 0),
		CustomHeaders:  headers,
	}), nil
}
