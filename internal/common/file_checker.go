package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// binarySniffSize is how many leading bytes are inspected for NUL bytes when
// classifying a file as binary.
const binarySniffSize = 8 * 1024

// FileChecker decides whether a file is eligible for diffing. It excludes
// oversized files and files that look binary. The diff engine itself never
// performs this check.
type FileChecker struct {
	maxSizeBytes int64
	logger       zerolog.Logger
}

// NewFileChecker creates a new FileChecker. maxSizeMB bounds eligible file
// size; zero or negative disables the size check.
func NewFileChecker(maxSizeMB int, logger zerolog.Logger) *FileChecker {
	return &FileChecker{
		maxSizeBytes: int64(maxSizeMB) * 1024 * 1024,
		logger:       logger.With().Str("component", "FileChecker").Logger(),
	}
}

// Eligible reports whether the file at path is safe to diff. The returned
// reason is empty when the file is eligible.
func (fc *FileChecker) Eligible(path string) (bool, string) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Sprintf("cannot stat file: %v", err)
	}
	if info.IsDir() {
		return false, "path is a directory"
	}
	if fc.maxSizeBytes > 0 && info.Size() > fc.maxSizeBytes {
		return false, fmt.Sprintf("file is %d bytes, exceeds limit of %d bytes", info.Size(), fc.maxSizeBytes)
	}

	isBinary, err := fc.looksBinary(path)
	if err != nil {
		return false, fmt.Sprintf("cannot inspect file: %v", err)
	}
	if isBinary {
		return false, "file appears to be binary"
	}
	return true, ""
}

// looksBinary reports whether the file's leading bytes contain a NUL byte.
func (fc *FileChecker) looksBinary(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fc.logger.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	buf := make([]byte, binarySniffSize)
	n, err := file.Read(buf)
	if err != nil && n == 0 {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}
