package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// levelRouter sends server chatter (INFO and WARN) to the console's stdout
// and failures (ERROR) to stderr. With --log set, newLogger tees both sides
// into the log file before they reach this handler.
type levelRouter struct {
	info   slog.Handler
	errors slog.Handler
}

func (lr *levelRouter) pick(level slog.Level) slog.Handler {
	if level >= slog.LevelError {
		return lr.errors
	}
	return lr.info
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	return lr.pick(r.Level).Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{info: lr.info.WithAttrs(attrs), errors: lr.errors.WithAttrs(attrs)}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{info: lr.info.WithGroup(name), errors: lr.errors.WithGroup(name)}
}

// newLogger builds the level-routing logger writing to stdout and stderr,
// and to logFile as well when it is set.
func newLogger(stdout, stderr, logFile io.Writer) *slog.Logger {
	if logFile != nil {
		stdout = io.MultiWriter(stdout, logFile)
		stderr = io.MultiWriter(stderr, logFile)
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	return slog.New(&levelRouter{
		info:   slog.NewTextHandler(stdout, opts),
		errors: slog.NewTextHandler(stderr, opts),
	})
}

// setupLogger installs the default logger. The returned function closes the
// log file, if one was opened.
func setupLogger(logPath string) (func(), error) {
	if logPath == "" {
		slog.SetDefault(newLogger(os.Stdout, os.Stderr, nil))
		return func() {}, nil
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	slog.SetDefault(newLogger(os.Stdout, os.Stderr, f))
	return func() { f.Close() }, nil
}
