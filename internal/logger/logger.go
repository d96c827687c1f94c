package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vuon9/workdiff/internal/common"
	"github.com/vuon9/workdiff/internal/config"
)

// New creates the root application logger from the log configuration. The
// console writer always goes to stderr; when a log file is configured it is
// written through lumberjack for size-based rotation.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	writers := []io.Writer{newConsoleWriter(cfg.LogFormat)}
	if cfg.LogFile != "" {
		fileWriter, err := newFileWriter(cfg)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, fileWriter)
	}

	multi := zerolog.MultiLevelWriter(writers...)
	root := zerolog.New(multi).
		Level(level).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(level)
	return root, nil
}

// parseLevel converts the configured level string to a zerolog level.
func parseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		level = config.DefaultLogLevel
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, common.NewValidationError("log_level", level, "unknown log level")
	}
	return parsed, nil
}

// newConsoleWriter builds the stderr writer for the configured format. The
// json format writes raw zerolog output; anything else gets the
// human-readable console writer.
func newConsoleWriter(format string) io.Writer {
	if strings.ToLower(format) == "json" {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{Out: os.Stderr}
}

// newFileWriter builds the rotating file writer.
func newFileWriter(cfg config.LogConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, common.WrapError(err, "failed to create log directory")
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxLogSizeMB,
		MaxBackups: cfg.MaxLogBackups,
		MaxAge:     cfg.MaxLogAgeDays,
		LocalTime:  true,
	}, nil
}
