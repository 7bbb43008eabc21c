// Package logs owns the process logger.
package logs

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the application logger. It is usable before Init is called and
// then writes text to stderr at info level.
var Logger = logrus.New()

// Options are the logger settings read from config.
type Options struct {
	Level  string // trace|debug|info|warning|error|fatal
	Format string // text|json
}

// Init configures Logger from opts and returns it.
func Init(opts Options) *logrus.Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if opts.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	l.SetOutput(os.Stdout)
	Logger = l
	return l
}
