package whisper_cpp

import (
	"go.uber.org/zap"
	"recorder-whisper/internal/app/api"
	"recorder-whisper/internal/app/api/provider"
	apperrors "recorder-whisper/internal/app/errors"
)

func init() {
	provider.RegisterProvider("whisper_cpp", createLocalProvider)
}

func createLocalProvider(language string, settings provider.Settings) (api.Transcriber, error) {
	binaryPath := settings.String("binary_path", "whisper-cli")
	modelPath := settings.String("model_path", "")
	if modelPath == "" {
		return nil, apperrors.RequiredField("model_path")
	}

	return NewLocalTranscriber(binaryPath, modelPath, language).
		WithPrompt(settings.String("prompt", "")).
		WithLogger(zap.L().Named("whisper_cpp")), nil
}
