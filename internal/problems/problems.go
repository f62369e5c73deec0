// Package problems implements the append-only problems.log diagnostic
// surface described in the pipeline's error-handling design: every
// recoverable per-project or per-class issue is appended here, optionally
// mirrored through a progress reporter and a structured logger.
package problems

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mascot-tools/buildgraph/internal/progress"
)

// Logger appends free-form problem entries to a log file, with entries
// separated by blank lines per the cache-file contract.
type Logger struct {
	file     *os.File
	progress *progress.Progress
	slog     *slog.Logger
}

// New opens (creating or truncating per replace) the problems log at path.
func New(path string, replace bool, prog *progress.Progress, logger *slog.Logger) (*Logger, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if replace {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open problems log: %w", err)
	}

	return &Logger{file: f, progress: prog, slog: logger}, nil
}

// Logf appends a formatted entry to the log and mirrors a summary line
// through the progress reporter and structured logger, if set.
func (l *Logger) Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	if l.file != nil {
		fmt.Fprintf(l.file, "%s\n\n", strings.TrimRight(msg, "\n"))
	}
	if l.progress != nil {
		l.progress.Info(msg)
	}
	if l.slog != nil {
		l.slog.Warn(msg)
	}
}

// Close releases the underlying file handle.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
