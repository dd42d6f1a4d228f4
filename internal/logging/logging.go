// Package logging builds the process-wide logrus logger and the
// per-component entries derived from it, so no package outside this
// one reaches for a global logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options configures the root logger.
type Options struct {
	// Level is one of logrus's level names ("debug", "info", "warn",
	// "error"); an unrecognised or empty value falls back to "info".
	Level string
	// JSON selects the structured JSON formatter over the default
	// text formatter, for output that log collectors parse.
	JSON bool
	// Output defaults to os.Stderr when nil.
	Output io.Writer
}

// New builds the root *logrus.Logger from opts.
func New(opts Options) *logrus.Logger {
	l := logrus.New()

	if opts.Output != nil {
		l.SetOutput(opts.Output)
	} else {
		l.SetOutput(os.Stderr)
	}

	if opts.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}

// Component returns a *logrus.Entry tagged with the given component
// name, the unit of injection every package threads through its
// constructor instead of reaching for a package-level logger.
func Component(l *logrus.Logger, name string) *logrus.Entry {
	return l.WithField("component", name)
}
