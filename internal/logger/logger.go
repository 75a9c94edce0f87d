// Package logger is a small level-filtered logger. Output goes to stderr
// by default so that stdout stays free for tracefile data.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents the logging level.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var levelColors = map[Level]string{
	DEBUG: "\033[36m", // Cyan
	INFO:  "\033[32m", // Green
	WARN:  "\033[33m", // Yellow
	ERROR: "\033[31m", // Red
}

const colorReset = "\033[0m"

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger writes leveled messages to an io.Writer.
type Logger struct {
	mu          sync.Mutex
	level       Level
	out         *log.Logger
	colorEnable bool
}

// New creates a Logger writing messages at or above level to w.
func New(w io.Writer, level Level, color bool) *Logger {
	return &Logger{
		level:       level,
		out:         log.New(w, "", log.LstdFlags),
		colorEnable: color,
	}
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	message := fmt.Sprintf(format, args...)
	if l.colorEnable {
		l.out.Printf("%s[%s]%s %s", levelColors[level], level, colorReset, message)
	} else {
		l.out.Printf("[%s] %s", level, message)
	}
}

var std = New(os.Stderr, WARN, false)

// Init configures the default logger from a level name, falling back to
// INFO for unknown names.
func Init(levelStr string) {
	level, _ := ParseLevel(levelStr)
	SetLevel(level)
}

// SetLevel sets the logging level of the default logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// SetOutput sets the output destination of the default logger.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.out.SetOutput(w)
}

// SetColorEnable enables or disables color output.
func SetColorEnable(enable bool) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.colorEnable = enable
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) {
	std.logf(DEBUG, format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	std.logf(INFO, format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...interface{}) {
	std.logf(WARN, format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	std.logf(ERROR, format, args...)
}
