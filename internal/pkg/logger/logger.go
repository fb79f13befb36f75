package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

func (l Level) String() string { return levelNames[l] }

func (l Level) slogLevel() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR, FATAL:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel turns a LOG_LEVEL value into a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	for lvl, name := range levelNames {
		if strings.EqualFold(s, name) {
			return lvl
		}
	}
	return INFO
}

type Logger struct {
	level *slog.LevelVar
	log   *slog.Logger
}

// New builds a logger writing to w. JSON output is used for production.
func New(w io.Writer, level Level, json bool) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level.slogLevel())

	opts := &slog.HandlerOptions{Level: lv}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return &Logger{level: lv, log: slog.New(h)}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.log.Debug(fmt.Sprintf(format, v...)) }
func (l *Logger) Info(format string, v ...interface{})  { l.log.Info(fmt.Sprintf(format, v...)) }
func (l *Logger) Warn(format string, v ...interface{})  { l.log.Warn(fmt.Sprintf(format, v...)) }
func (l *Logger) Error(format string, v ...interface{}) { l.log.Error(fmt.Sprintf(format, v...)) }

func (l *Logger) Fatal(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...), "fatal", true)
	os.Exit(1)
}

// With returns a structured logger carrying attrs.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.log.With(args...)
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger { return l.log }

// SetLevel changes the logging level
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return l.log.Enabled(context.Background(), level.slogLevel())
}

// Global logger instance
var defaultLogger = New(os.Stdout, INFO, false)

// Init replaces the global logger. Call once from main.
func Init(level Level, json bool) {
	defaultLogger = New(os.Stdout, level, json)
	slog.SetDefault(defaultLogger.log)
}

// Default returns the global logger.
func Default() *Logger { return defaultLogger }

// Package-level functions for easy access
func Debug(format string, v ...interface{}) { defaultLogger.Debug(format, v...) }
func Info(format string, v ...interface{})  { defaultLogger.Info(format, v...) }
func Warn(format string, v ...interface{})  { defaultLogger.Warn(format, v...) }
func Error(format string, v ...interface{}) { defaultLogger.Error(format, v...) }
func Fatal(format string, v ...interface{}) { defaultLogger.Fatal(format, v...) }

// With returns the global structured logger carrying attrs.
func With(args ...any) *slog.Logger { return defaultLogger.With(args...) }

// SetGlobalLevel sets the level for the global logger
func SetGlobalLevel(level Level) {
	defaultLogger.SetLevel(level)
}
