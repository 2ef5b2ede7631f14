// Package logging builds the logrus logger used by the forecast CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options configure a logger.
type Options struct {
	Level       string
	Environment string
	Output      io.Writer
}

// IsProduction reports whether env selects machine-readable output.
func IsProduction(env string) bool {
	switch strings.ToLower(env) {
	case "production", "staging":
		return true
	}
	return false
}

// New creates a logger. Production and staging log JSON; everything else
// logs human-readable text. An unknown level falls back to info.
func New(opts Options) *logrus.Logger {
	log := logrus.New()
	if opts.Output != nil {
		log.SetOutput(opts.Output)
	} else {
		log.SetOutput(os.Stderr)
	}

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		if opts.Level != "" {
			log.Warnf("invalid log level %q, defaulting to info", opts.Level)
		}
	} else {
		log.SetLevel(level)
	}

	if IsProduction(opts.Environment) {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return log
}

// ForRequest scopes a logger to one forecast run.
func ForRequest(log *logrus.Logger, requestID, forecast string) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"request_id": requestID,
		"forecast":   forecast,
	})
}
