// internal/core/logger/logger.go
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus" // Using logrus for structured logging
)

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.SetOutput(os.Stderr) // stdout is reserved for scan output
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: false, // Colors are good for console, can be disabled for files
	})
	log.SetLevel(logrus.WarnLevel)
}

// SetupLogger configures the logger based on the provided level string.
func SetupLogger(level string) {
	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
}

// SetOutput redirects log lines, disabling colours for anything that is not
// the terminal.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
	if w != os.Stderr && w != os.Stdout {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}
}

// GetLogger returns the configured logger instance.
func GetLogger() *logrus.Logger {
	return log
}
