// Package logger builds the process logger. Logs go to stderr so stdout stays free for
// command output and the MCP stdio transport.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Config holds logging configuration.
type Config struct {
	// trace, debug, info, warn, error
	Level string `env:"LOG_LEVEL"`
	// text or json
	Format string `env:"LOG_FORMAT"`
	// File, when set, also receives every entry through a rotating writer.
	File       string `env:"LOG_FILE"`
	MaxSize    int    `env:"LOG_MAX_SIZE"` // MB
	MaxBackups int    `env:"LOG_MAX_BACKUPS"`
	MaxAge     int    `env:"LOG_MAX_AGE"` // days
	Compress   bool   `env:"LOG_COMPRESS"`
}

// New creates a logger writing to out (os.Stderr when nil) and, if configured, to a
// rotated log file.
func New(cfg Config, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}
	log := logrus.New()

	level := logrus.WarnLevel
	if cfg.Level != "" {
		var err error
		level, err = logrus.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", cfg.Format)
	}

	writers := []io.Writer{out}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}
	log.SetOutput(io.MultiWriter(writers...))
	return log, nil
}
