// Package logger owns the shared logrus instance.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// L returns the shared logger.
func L() *logrus.Logger {
	return log
}

// Setup configures the level and an optional logfile. When a file is
// given, output goes to both stdout and the file.
func Setup(level, file string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file %q: %w", file, err)
		}
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	return nil
}
