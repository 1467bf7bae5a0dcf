package logger

import (
	"os"
	"sync"
)

var (
	defMu     sync.RWMutex
	defLogger = NewSlog(envLevel(), false)
)

// envLevel returns the level named by the LOG_LEVEL environment variable, or InfoLevel.
func envLevel() Level {
	level, err := ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return InfoLevel
	}

	return level
}

func def() Logger {
	defMu.RLock()
	defer defMu.RUnlock()

	return defLogger
}

// SetDefault replaces the default logger, e.g. with an application logger that instrument
// sessions should share. A nil l is ignored.
//
// Sessions and transports created before the call keep the logger they were configured with.
func SetDefault(l Logger) {
	if l == nil {
		return
	}

	defMu.Lock()
	defer defMu.Unlock()

	defLogger = l
}

// Debug logs a message at DebugLevel with the default logger.
func Debug(msg string, keysAndValues ...any) {
	def().Debug(msg, keysAndValues...)
}

// Info logs a message at InfoLevel with the default logger.
func Info(msg string, keysAndValues ...any) {
	def().Info(msg, keysAndValues...)
}

// Warn logs a message at WarnLevel with the default logger.
func Warn(msg string, keysAndValues ...any) {
	def().Warn(msg, keysAndValues...)
}

// Error logs a message at ErrorLevel with the default logger.
func Error(msg string, keysAndValues ...any) {
	def().Error(msg, keysAndValues...)
}

// Fatal logs a message with the default logger and exits the process.
func Fatal(msg string, keysAndValues ...any) {
	def().Fatal(msg, keysAndValues...)
}

// SetLevel sets the minimum enabled level of the default logger.
func SetLevel(level Level) {
	def().SetLevel(level)
}

// GetLogger returns the default logger.
func GetLogger() Logger {
	return def()
}

// With returns a child of the default logger carrying keyValues.
func With(keyValues ...any) Logger {
	return def().With(keyValues...)
}
