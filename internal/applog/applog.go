// Package applog provides the engine's single structured-logging entry
// point: a package-level *logrus.Logger, injectable for tests and CLI
// verbosity flags alike.
package applog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var std = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Logger returns the package-level logger.
func Logger() *logrus.Logger { return std }

// SetLevel adjusts verbosity, e.g. from a CLI --verbose flag.
func SetLevel(level logrus.Level) { std.SetLevel(level) }

// WithField is a convenience wrapper around Logger().WithField.
func WithField(key string, value interface{}) *logrus.Entry {
	return std.WithField(key, value)
}
