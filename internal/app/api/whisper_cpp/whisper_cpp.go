package whisper_cpp

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	apperrors "recorder-whisper/internal/app/errors"
	"recorder-whisper/internal/app/util/files"
)

// LocalTranscriber implements local transcription, using the whisper.cpp binary.
type LocalTranscriber struct {
	binaryPath string
	modelPath  string
	language   string
	prompt     string
	logger     *zap.Logger
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(binaryPath, modelPath, language string) *LocalTranscriber {
	return &LocalTranscriber{
		binaryPath: binaryPath,
		modelPath:  modelPath,
		language:   language,
		logger:     zap.NewNop(),
	}
}

// WithPrompt sets the initial prompt passed to whisper.cpp.
func (lt *LocalTranscriber) WithPrompt(prompt string) *LocalTranscriber {
	lt.prompt = prompt
	return lt
}

// WithLogger sets the logger.
func (lt *LocalTranscriber) WithLogger(logger *zap.Logger) *LocalTranscriber {
	if logger != nil {
		lt.logger = logger
	}
	return lt
}

// Transcript runs whisper.cpp over a 16kHz mono WAV file and returns the text
// it wrote to its .txt output.
func (lt *LocalTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	if _, err := os.Stat(inputFilePath); err != nil {
		return "", apperrors.Transcription(err, "input file not accessible")
	}

	outDir, err := os.MkdirTemp("", "whisper-cpp-*")
	if err != nil {
		return "", apperrors.IO(err, "failed to create whisper output directory")
	}
	defer os.RemoveAll(outDir)
	outputFile := filepath.Join(outDir, "transcript")

	args := []string{
		"-m", lt.modelPath,
		"-l", lt.language,
		"-otxt",
		"-f", inputFilePath,
		"-of", outputFile,
	}
	if lt.prompt != "" {
		args = append(args, "--prompt", lt.prompt)
	}

	command := exec.CommandContext(ctx, lt.binaryPath, args...)
	var stderr bytes.Buffer
	command.Stderr = &stderr

	lt.logger.Debug("running whisper.cpp",
		zap.String("binary", lt.binaryPath),
		zap.String("args", strings.Join(args, " ")))

	if err := command.Run(); err != nil {
		return "", apperrors.Transcription(err, "whisper.cpp failed: %s", strings.TrimSpace(stderr.String()))
	}

	output, err := files.ReadOutputFile(outputFile + ".txt")
	if err != nil {
		return "", apperrors.Transcription(err, "failed to read whisper.cpp output")
	}

	return output, nil
}
