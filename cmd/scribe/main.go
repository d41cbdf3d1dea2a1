package main

import (
	"recorder-whisper/cmd/scribe/cmd"

	// Import providers to register them
	_ "recorder-whisper/internal/app/api/gemini"
	_ "recorder-whisper/internal/app/api/openai/whisper"
	_ "recorder-whisper/internal/app/api/whisper_cpp"
	_ "recorder-whisper/internal/app/api/whisper_server"
)

func main() {
	cmd.Execute()
}
