package gemini

import (
	"context"
	"net/http"
	"os"
	"time"

	"recorder-whisper/internal/app/api"
	"recorder-whisper/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("gemini", createGeminiProvider)
}

// createGeminiProvider reads api_key from settings, falling back to GEMINI_API_KEY.
func createGeminiProvider(language string, settings provider.Settings) (api.Transcriber, error) {
	return NewTranscriber(context.Background(), Config{
		APIKey:     settings.String("api_key", os.Getenv("GEMINI_API_KEY")),
		Model:      settings.String("model", defaultModel),
		BaseURL:    settings.String("base_url", ""),
		HTTPClient: &http.Client{Timeout: settings.Duration("timeout", 5*time.Minute)},
	}, language)
}
