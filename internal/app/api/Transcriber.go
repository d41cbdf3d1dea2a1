package api

import "context"

// Transcriber defines a transcription interface for converting audio files to text.
// An empty transcript with a nil error means the model heard nothing.
type Transcriber interface {
	Transcript(ctx context.Context, inputFilePath string) (string, error)
}
