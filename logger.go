package figura

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// nopHandler is a slog.Handler that discards every record. Enabled returns
// false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the logger used by figura. The default is silent; pass nil
// to restore it.
//
// Levels used:
//   - [slog.LevelDebug]: movement and pulse state transitions
//   - [slog.LevelInfo]: scenario changes, figure lifecycle
//   - [slog.LevelWarn]: singular matrices, unresolved callbacks
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// FileLogger is a JSON slog logger writing to a size-rotated file.
type FileLogger struct {
	*slog.Logger
	LogFile string

	w *lumberjack.Logger
}

// NewFileLogger returns a logger writing JSON records at or above level to
// dir/figura.slog, rotated at 32 MB with one backup kept.
func NewFileLogger(dir string, level string) (*FileLogger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "figura.slog"),
		MaxSize:    32, // MB
		MaxBackups: 1,
	}
	if lvl == slog.LevelDebug {
		w.MaxSize = 256
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return &FileLogger{Logger: slog.New(h), LogFile: w.Filename, w: w}, nil
}

// Close closes the underlying file.
func (l *FileLogger) Close() error {
	return l.w.Close()
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%s: invalid log level", level)
}
