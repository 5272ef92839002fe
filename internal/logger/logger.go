package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var std *logrus.Logger

// Init configures the process-wide logger. An unknown level falls back to info.
func Init(level, format string) *logrus.Logger {
	return initWithOutput(level, format, os.Stdout)
}

func initWithOutput(level, format string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", level).Warn("invalid LOG_LEVEL, using info")
	}

	std = log
	return log
}

// Get returns the process-wide logger, creating a default one if Init was never called.
func Get() *logrus.Logger {
	if std == nil {
		return Init("info", "text")
	}
	return std
}

// WithComponent tags log lines with the emitting component.
func WithComponent(name string) *logrus.Entry {
	return Get().WithField("component", name)
}
