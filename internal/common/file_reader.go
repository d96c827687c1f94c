package common

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// FileReader handles file reading operations with a size ceiling.
type FileReader struct {
	logger  zerolog.Logger
	maxSize int64
}

// NewFileReader creates a new FileReader instance. maxSize bounds the number
// of bytes read from any single file; zero or negative means unbounded.
func NewFileReader(maxSize int64, logger zerolog.Logger) *FileReader {
	return &FileReader{
		logger:  logger.With().Str("component", "FileReader").Logger(),
		maxSize: maxSize,
	}
}

// ReadFile reads the full content of the file at path. A missing file is
// reported as an error satisfying errors.Is(err, fs.ErrNotExist) so callers
// can represent absence as data rather than failure.
func (fr *FileReader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fr.logger.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	if fr.maxSize > 0 {
		info, statErr := file.Stat()
		if statErr != nil {
			return nil, WrapError(statErr, fmt.Sprintf("failed to stat file: %s", path))
		}
		if info.Size() > fr.maxSize {
			return nil, WrapError(ErrFileTooLarge, fmt.Sprintf("file %s is %d bytes, limit is %d", path, info.Size(), fr.maxSize))
		}
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to read file: %s", path))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return content, nil
}
