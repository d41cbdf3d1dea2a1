package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	apperrors "recorder-whisper/internal/app/errors"
	"recorder-whisper/internal/app/model"
)

// Format is the container of a staged audio file.
type Format string

const (
	FormatMP3 Format = "mp3"
	FormatWAV Format = "wav"
)

// Ext returns the file extension for the format, with the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Converter transcodes an audio file into the WAV layout the transcriber expects.
type Converter interface {
	ConvertToWav(ctx context.Context, srcPath, dstPath string) error
}

// FFmpegConverter shells out to ffmpeg.
type FFmpegConverter struct {
	Binary     string
	SampleRate int
	Channels   int
}

// NewFFmpegConverter returns a converter producing mono 16kHz WAV.
func NewFFmpegConverter(binary string) *FFmpegConverter {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegConverter{
		Binary:     binary,
		SampleRate: 16000,
		Channels:   1,
	}
}

// ConvertToWav writes a WAV version of srcPath to dstPath, overwriting it.
// A missing source is reported without running ffmpeg and leaves dstPath
// untouched; a failed run removes whatever ffmpeg managed to write.
func (c *FFmpegConverter) ConvertToWav(ctx context.Context, srcPath, dstPath string) error {
	if _, err := os.Stat(srcPath); err != nil {
		return apperrors.Conversion(err, "source audio %s is not readable", srcPath)
	}

	args := []string{
		"-y",
		"-i", srcPath,
		"-ac", strconv.Itoa(c.Channels),
		"-ar", strconv.Itoa(c.SampleRate),
		dstPath,
	}
	cmd := exec.CommandContext(ctx, c.Binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(dstPath)
		return apperrors.Conversion(err, "FFmpeg error, stderr: %s", strings.TrimSpace(stderr.String()))
	}

	if _, err := os.Stat(dstPath); err != nil {
		return apperrors.Conversion(err, "FFmpeg produced no output at %s", dstPath)
	}

	return nil
}

// DetectFormat decides whether a staged upload needs conversion. The declared
// MIME type wins when it is informative; an empty or generic declaration, or
// sniff=true, falls back to the file's content. Anything not recognised as
// MP3 is treated as WAV.
func DetectFormat(declaredType, path string, sniff bool) Format {
	declared := strings.ToLower(strings.TrimSpace(declaredType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}

	generic := declared == "" || declared == "application/octet-stream"
	if !sniff && !generic {
		if isMP3Type(declared) {
			return FormatMP3
		}
		return FormatWAV
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		if isMP3Type(declared) {
			return FormatMP3
		}
		return FormatWAV
	}
	if mtype.Is("audio/mpeg") {
		return FormatMP3
	}
	return FormatWAV
}

func isMP3Type(mimeType string) bool {
	switch mimeType {
	case "audio/mp3", "audio/mpeg", "audio/x-mp3", "audio/x-mpeg", "audio/mpeg3":
		return true
	}
	return false
}

// Prober reads stream metadata with ffprobe.
type Prober struct {
	Binary string
}

// NewProber returns a prober using the given ffprobe binary.
func NewProber(binary string) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{Binary: binary}
}

// Duration returns the audio duration in whole seconds, rounded.
func (p *Prober) Duration(ctx context.Context, filePath string) (int, error) {
	cmd := exec.CommandContext(ctx, p.Binary, "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	return parseDuration(string(output))
}

// Is16kHzMonoWav reports whether filePath already has the layout the
// converter would produce.
func (p *Prober) Is16kHzMonoWav(ctx context.Context, filePath string) (bool, error) {
	cmd := exec.CommandContext(ctx, p.Binary, "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return false, err
	}
	return parseIs16kHz(output)
}

// EnsureWav returns a path to a mono 16kHz WAV version of path. A WAV that
// already has that layout is returned as is; anything else is converted into
// dir. cleanup removes the converted copy and is never nil.
func EnsureWav(ctx context.Context, prober *Prober, converter Converter, path, dir string) (string, func(), error) {
	noop := func() {}
	if strings.EqualFold(filepath.Ext(path), FormatWAV.Ext()) {
		// an unreadable probe falls through to ffmpeg, which reports the real problem
		if ok, err := prober.Is16kHzMonoWav(ctx, path); err == nil && ok {
			return path, noop, nil
		}
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	wavPath := filepath.Join(dir, base+"-16k"+FormatWAV.Ext())
	if err := converter.ConvertToWav(ctx, path, wavPath); err != nil {
		return "", noop, err
	}
	return wavPath, func() { os.Remove(wavPath) }, nil
}

func parseDuration(output string) (int, error) {
	durationFloat, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(durationFloat)), nil
}

func parseIs16kHz(output []byte) (bool, error) {
	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return false, err
	}

	for _, stream := range probeOutput.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" && stream.SampleRate == 16000 && stream.Channels == 1 {
			return true, nil
		}
	}

	return false, nil
}
