package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the process logger. The returned closer releases the log
// file, if one was opened.
func newLogger(cfg LoggingConfig) (*slog.Logger, io.Closer, error) {
	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	switch strings.ToLower(cfg.Output) {
	case "file", "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		closer = file
		out = file
		if strings.EqualFold(cfg.Output, "both") {
			out = io.MultiWriter(os.Stderr, file)
		}
	case "stdout":
		out = os.Stdout
	default:
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h), closer, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
