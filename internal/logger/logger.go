// Package logger configures the global zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rrens/careops/internal/config"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger described by cfg. The returned closer
// releases the rotating file, if any.
func Setup(cfg config.LoggingConfig) (io.Closer, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	w, closer, err := newWriter(cfg, os.Stderr, os.Getenv("ENV"))
	if err != nil {
		return nil, err
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return closer, nil
}

// ParseLevel maps a configured level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func newWriter(cfg config.LoggingConfig, out io.Writer, env string) (io.Writer, io.Closer, error) {
	var console io.Writer = out
	if useConsole(cfg.Format, env) {
		console = zerolog.ConsoleWriter{Out: out}
	}

	if !cfg.File.Enabled {
		return console, nopCloser{}, nil
	}

	if dir := filepath.Dir(cfg.File.Pattern); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	opts := []rotatelogs.Option{}
	if cfg.File.LinkName != "" {
		opts = append(opts, rotatelogs.WithLinkName(cfg.File.LinkName))
	}
	if cfg.File.MaxAge > 0 {
		opts = append(opts, rotatelogs.WithMaxAge(cfg.File.MaxAge))
	}
	if cfg.File.RotationTime > 0 {
		opts = append(opts, rotatelogs.WithRotationTime(cfg.File.RotationTime))
	}

	file, err := rotatelogs.New(cfg.File.Pattern, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open rotating log file: %w", err)
	}

	// The file always gets JSON lines
	return zerolog.MultiLevelWriter(console, file), file, nil
}

func useConsole(format, env string) bool {
	switch strings.ToLower(format) {
	case "console":
		return true
	case "json":
		return false
	default:
		return env != "production"
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
