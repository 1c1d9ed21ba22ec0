package logger

import (
	"fmt"
	"io"
	"log"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileLogger writes messages to a rotating log file in addition to honoring
// the Logger interface. It backs the diagnostics log where raw failed device
// responses are preserved for operator inspection.
type FileLogger struct {
	prefix string
	out    io.WriteCloser
}

// NewFileLogger creates a logger that appends to path with size-based
// rotation. Old files are pruned so a long-running poller can't fill the disk.
func NewFileLogger(prefix, path string) *FileLogger {
	return &FileLogger{
		prefix: prefix,
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		},
	}
}

func (l *FileLogger) write(level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s %s %s %s\n",
		time.Now().Format(time.RFC3339), level, l.prefix, msg)
	if _, err := l.out.Write([]byte(line)); err != nil {
		// The diagnostics file being unwritable should not take down
		// collection, so fall back to stderr.
		log.Printf("%s (diagnostics log unwritable: %v)", msg, err)
	}
}

func (l *FileLogger) Debug(format string, args ...interface{}) {
	l.write("DEBUG", format, args...)
}

func (l *FileLogger) Info(format string, args ...interface{}) {
	l.write("INFO", format, args...)
}

func (l *FileLogger) Warn(format string, args ...interface{}) {
	l.write("WARN", format, args...)
}

func (l *FileLogger) Error(format string, args ...interface{}) {
	l.write("ERROR", format, args...)
}

// Close flushes and closes the underlying file.
func (l *FileLogger) Close() error {
	return l.out.Close()
}
