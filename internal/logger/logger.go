// Package logger provides leveled logging for sercha-river.
// Messages go through log/slog with a tint handler. Debug output and
// section headers are only printed when verbose mode is enabled via
// the --verbose flag; info, warnings and errors are always printed.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	current           = build(os.Stderr, false)
)

func build(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(w),
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	current = build(output, verbose)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	current = build(output, verbose)
}

// SetFile sends logs to a size-rotated file in addition to stderr.
// The returned closer flushes and closes the file.
func SetFile(path string) io.Closer {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	SetOutput(io.MultiWriter(os.Stderr, rotator))
	return rotator
}

// Slog returns the underlying structured logger.
// It is also installed as the slog default by Install.
func Slog() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Install makes the current logger the process-wide slog default.
func Install() {
	slog.SetDefault(Slog())
}

func logf(level slog.Level, format string, args ...any) {
	l := Slog()
	if !l.Enabled(context.Background(), level) {
		return
	}
	l.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(slog.LevelDebug, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message.
func Info(format string, args ...any) {
	logf(slog.LevelInfo, format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	logf(slog.LevelWarn, format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	logf(slog.LevelError, format, args...)
}
