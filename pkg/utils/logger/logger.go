// Package logger configures the logrus loggers used across the installer.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// FormatText renders human-readable log lines.
	FormatText = "text"
	// FormatJSON renders one JSON object per log line.
	FormatJSON = "json"
)

// ErrInvalidFormat is returned when the log format is neither text nor json.
var ErrInvalidFormat = errors.New("invalid log format")

// New creates a logger writing to out at the given level and format.
// A nil writer defaults to os.Stderr so that logs never interleave with rendered reports.
func New(level, format string, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}

	parsedLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(parsedLevel)

	switch strings.ToLower(format) {
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors:    false,
			FullTimestamp:    true,
			DisableTimestamp: false,
		})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("%w: %s (valid options: %s, %s)", ErrInvalidFormat, format, FormatText, FormatJSON)
	}

	return logger, nil
}

// Discard returns a logger that drops every entry. Used as the default for library
// types constructed without an explicit logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)

	return logger
}
