package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"recorder-whisper/internal/app/model"
)

// AudioExtensions are the upload types the page accepts.
var AudioExtensions = []string{".mp3", ".wav"}

// EnsureDir creates dir and its parents if missing.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// GetAllAudioFiles lists the mp3/wav files in inputDir, oldest first.
func GetAllAudioFiles(inputDir string) ([]model.FileInfo, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	fileInfos := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (model.FileInfo, bool) {
		if entry.IsDir() || !IsAudioFile(entry.Name()) {
			return model.FileInfo{}, false
		}
		info, err := entry.Info()
		if err != nil {
			return model.FileInfo{}, false
		}
		return model.FileInfo{
			FullPath: filepath.Join(inputDir, entry.Name()),
			ModTime:  info.ModTime(),
			Name:     entry.Name(),
			Size:     info.Size(),
		}, true
	})

	sort.Slice(fileInfos, func(i, j int) bool {
		return fileInfos[i].ModTime.Before(fileInfos[j].ModTime)
	})

	return fileInfos, nil
}

// IsAudioFile reports whether name has an accepted audio extension.
func IsAudioFile(name string) bool {
	return lo.Contains(AudioExtensions, strings.ToLower(filepath.Ext(name)))
}

// StageTempFile copies r into a new file in dir (os.TempDir() when empty)
// named after pattern, and returns its path. On a failed copy the file is
// removed before returning.
func StageTempFile(dir, pattern string, r io.Reader) (string, int64, error) {
	tmpFile, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmpFile.Name()

	n, err := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write temp file: %w", err)
	}

	return path, n, nil
}

// SiblingWithExt returns path with its extension replaced by ext.
func SiblingWithExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// RemoveIfExists deletes path; a path that is already gone is not an error.
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadOutputFile reads the specified output file and returns its text content.
func ReadOutputFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(content)), nil
}
