package whisper

import (
	"os"
	"time"

	"recorder-whisper/internal/app/api"
	openaiclient "recorder-whisper/internal/app/api/openai"
	"recorder-whisper/internal/app/api/provider"
	apperrors "recorder-whisper/internal/app/errors"
)

func init() {
	provider.RegisterProvider("openai", createOpenAIProvider)
}

// createOpenAIProvider reads api_key from settings, falling back to OPENAI_API_KEY.
func createOpenAIProvider(language string, settings provider.Settings) (api.Transcriber, error) {
	apiKey := settings.String("api_key", os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, apperrors.ErrMissingAPIKey
	}

	client := openaiclient.NewClient(apiKey,
		settings.String("base_url", ""),
		settings.Duration("timeout", 5*time.Minute))

	return NewRemoteTranscriber(client, language).
		WithModel(settings.String("model", "")).
		WithPrompt(settings.String("prompt", ""), float32(settings.Float("temperature", 0))), nil
}
