// Package logger provides leveled, structured logging for sriovconf,
// backed by logrus.
package logger

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

var defaultLogger = log.New()

func init() {
	defaultLogger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	defaultLogger.SetLevel(log.InfoLevel)
}

// SetLevelFromString sets the log level from a string such as "debug" or "warn".
func SetLevelFromString(levelStr string) error {
	switch strings.ToLower(levelStr) {
	case "debug":
		defaultLogger.SetLevel(log.DebugLevel)
	case "info":
		defaultLogger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		defaultLogger.SetLevel(log.WarnLevel)
	case "error":
		defaultLogger.SetLevel(log.ErrorLevel)
	default:
		return fmt.Errorf("invalid log level: %s", levelStr)
	}
	return nil
}

// SetOutput sets the output for the default logger.
func SetOutput(output io.Writer) {
	defaultLogger.SetOutput(output)
}

// IsDebugEnabled returns true if debug logging is enabled.
func IsDebugEnabled() bool {
	return defaultLogger.GetLevel() >= log.DebugLevel
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	defaultLogger.Debugf(format, args...)
}

// Info logs an info message.
func Info(format string, args ...interface{}) {
	defaultLogger.Infof(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	defaultLogger.Warnf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}

// WithField adds a field to the logger.
func WithField(key string, value interface{}) *log.Entry {
	return defaultLogger.WithField(key, value)
}

// WithFields adds multiple fields to the logger.
func WithFields(fields log.Fields) *log.Entry {
	return defaultLogger.WithFields(fields)
}

// WithError adds an error field to the logger.
func WithError(err error) *log.Entry {
	return defaultLogger.WithError(err)
}
