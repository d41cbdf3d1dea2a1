package whisper

import (
	"context"
	"os"

	"github.com/sashabaranov/go-openai"
	apperrors "recorder-whisper/internal/app/errors"
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client      *openai.Client
	model       string
	language    string
	prompt      string
	temperature float32
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, language string) *RemoteTranscriber {
	return &RemoteTranscriber{
		client:   client,
		model:    openai.Whisper1,
		language: language,
	}
}

// WithModel overrides the default whisper-1 model.
func (rt *RemoteTranscriber) WithModel(model string) *RemoteTranscriber {
	if model != "" {
		rt.model = model
	}
	return rt
}

// WithPrompt sets the prompt and decoding temperature.
func (rt *RemoteTranscriber) WithPrompt(prompt string, temperature float32) *RemoteTranscriber {
	rt.prompt = prompt
	rt.temperature = temperature
	return rt
}

// Transcript uses the OpenAI API for remote transcription.
func (rt *RemoteTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	if _, err := os.Stat(inputFilePath); err != nil {
		return "", apperrors.Transcription(err, "input file not accessible")
	}

	req := openai.AudioRequest{
		Model:       rt.model,
		FilePath:    inputFilePath,
		Language:    rt.language,
		Prompt:      rt.prompt,
		Temperature: rt.temperature,
		Format:      openai.AudioResponseFormatJSON,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", apperrors.Transcription(err, "createTranscription failed")
	}

	return resp.Text, nil
}
