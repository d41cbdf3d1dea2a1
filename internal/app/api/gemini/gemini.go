package gemini

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"google.golang.org/genai"
	apperrors "recorder-whisper/internal/app/errors"
)

const defaultModel = "gemini-2.5-flash"

// Config holds the Gemini transcription settings.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Transcriber asks a Gemini model for a verbatim transcript of a WAV file.
type Transcriber struct {
	client   *genai.Client
	model    string
	language string
}

// NewTranscriber creates a Gemini API client.
func NewTranscriber(ctx context.Context, config Config, language string) (*Transcriber, error) {
	if config.APIKey == "" {
		return nil, apperrors.ErrMissingAPIKey
	}
	if config.Model == "" {
		config.Model = defaultModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: config.HTTPClient,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Transcriber{client: client, model: config.Model, language: language}, nil
}

// Transcript sends the audio inline with a transcription instruction.
func (t *Transcriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	data, err := os.ReadFile(inputFilePath)
	if err != nil {
		return "", apperrors.Transcription(err, "input file not accessible")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt(t.language)),
			genai.NewPartFromBytes(data, "audio/wav"),
		}, genai.RoleUser),
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", apperrors.Transcription(err, "gemini generateContent failed")
	}

	return strings.TrimSpace(resp.Text()), nil
}

func prompt(language string) string {
	return fmt.Sprintf("Transcribe this audio verbatim. The speech is in language %q. "+
		"Reply with the transcript only. Reply with nothing if there is no speech.", language)
}
