package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a new logger instance
func New(level, format string) *logrus.Logger {
	return NewWithOutput(level, format, os.Stdout)
}

// NewWithOutput creates a logger writing to out
func NewWithOutput(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()

	// Set log level
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	logger.SetOutput(out)

	// Set formatter
	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	return logger
}

// Discard returns a logger that drops everything, used by tests
func Discard() *logrus.Logger {
	return NewWithOutput("panic", "text", io.Discard)
}
