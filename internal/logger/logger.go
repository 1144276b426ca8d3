// Package logger provides the leveled logging used across the pipeline.
// Lines go to stderr as plain text or line-delimited JSON, selected by the
// logging.format configuration key.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// Logger writes leveled log lines in one of the two output formats.
type Logger struct {
	mu     sync.Mutex
	level  Level
	asJSON bool
	out    io.Writer
}

var defaultLogger *Logger

// New creates a logger writing to out. Unknown level names fall back to
// info; any format other than "json" means plain text.
func New(level, format string, out io.Writer) *Logger {
	return &Logger{
		level:  parseLevel(level),
		asJSON: strings.EqualFold(format, "json"),
		out:    out,
	}
}

// Init initializes the default logger with the specified level and format.
func Init(level, format string) {
	defaultLogger = New(level, format, os.Stderr)
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

type jsonLine struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"msg"`
}

func (l *Logger) write(level Level, format string, args ...interface{}) {
	if l == nil || level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.asJSON {
		line, err := json.Marshal(jsonLine{
			Time:    now.Format(time.RFC3339),
			Level:   level.String(),
			Message: msg,
		})
		if err != nil {
			fmt.Fprintf(l.out, `{"level":"ERROR","msg":"failed to encode log line: %v"}`+"\n", err)
			return
		}
		fmt.Fprintln(l.out, string(line))
		return
	}
	fmt.Fprintf(l.out, "%s [%s] %s\n", now.Format("2006/01/02 15:04:05.000000"), level, msg)
}

func Debug(format string, args ...interface{}) {
	defaultLogger.write(DebugLevel, format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.write(InfoLevel, format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.write(WarnLevel, format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.write(ErrorLevel, format, args...)
}

func Fatal(format string, args ...interface{}) {
	defaultLogger.write(FatalLevel, format, args...)
	os.Exit(1)
}
