package whisper_server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "recorder-whisper/internal/app/errors"
)

// WhisperServerProvider implements transcription via HTTP to a whisper-server instance
type WhisperServerProvider struct {
	config WhisperServerConfig
	client *http.Client
}

// WhisperServerConfig represents configuration for whisper-server HTTP API
type WhisperServerConfig struct {
	BaseURL        string            `yaml:"base_url"`        // e.g. "http://192.168.1.100:8080"
	InferencePath  string            `yaml:"inference_path"`  // default "/inference"
	Timeout        time.Duration     `yaml:"timeout"`
	Language       string            `yaml:"language"`
	ResponseFormat string            `yaml:"response_format"` // json, text, srt, vtt
	Temperature    float64           `yaml:"temperature"`
	CustomHeaders  map[string]string `yaml:"custom_headers"`
}

// WhisperServerResponse represents the JSON response from whisper-server
type WhisperServerResponse struct {
	Text     string  `json:"text,omitempty"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// NewWhisperServerProvider creates a new whisper-server HTTP provider
func NewWhisperServerProvider(config WhisperServerConfig) *WhisperServerProvider {
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.ResponseFormat == "" {
		config.ResponseFormat = "json"
	}
	if config.CustomHeaders == nil {
		config.CustomHeaders = make(map[string]string)
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &WhisperServerProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Transcript posts the file to the inference endpoint and returns the text.
func (wsp *WhisperServerProvider) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	body, contentType, err := wsp.createMultipartForm(inputFilePath)
	if err != nil {
		return "", apperrors.Transcription(err, "failed to build whisper-server request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, wsp.config.BaseURL+wsp.config.InferencePath, body)
	if err != nil {
		return "", apperrors.Transcription(err, "failed to create HTTP request")
	}
	httpReq.Header.Set("Content-Type", contentType)
	for key, value := range wsp.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := wsp.client.Do(httpReq)
	if err != nil {
		return "", apperrors.Transcription(err, "whisper-server request failed")
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Transcription(err, "failed to read whisper-server response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Transcription(nil,
			"whisper-server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseData)))
	}

	text, err := parseResponse(responseData, wsp.config.ResponseFormat)
	if err != nil {
		return "", apperrors.Transcription(err, "failed to parse whisper-server response")
	}
	return text, nil
}

func (wsp *WhisperServerProvider) createMultipartForm(inputFilePath string) (*bytes.Buffer, string, error) {
	file, err := os.Open(inputFilePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(inputFilePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %w", err)
	}

	params := map[string]string{
		"response_format": wsp.config.ResponseFormat,
		"temperature":     strconv.FormatFloat(wsp.config.Temperature, 'f', 2, 64),
	}
	if wsp.config.Language != "" {
		params["language"] = wsp.config.Language
	}
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

func parseResponse(data []byte, format string) (string, error) {
	switch format {
	case "json", "verbose_json":
		var resp WhisperServerResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", err
		}
		return strings.TrimSpace(resp.Text), nil
	case "srt", "vtt":
		return extractTextFromSubtitles(string(data), format), nil
	default:
		return strings.TrimSpace(string(data)), nil
	}
}

// extractTextFromSubtitles drops cue numbers, timestamps and the WEBVTT header.
func extractTextFromSubtitles(content, format string) string {
	var textLines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "-->") {
			continue
		}
		if format == "srt" && isNumeric(line) {
			continue
		}
		if format == "vtt" && line == "WEBVTT" {
			continue
		}
		textLines = append(textLines, line)
	}
	return strings.Join(textLines, " ")
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
