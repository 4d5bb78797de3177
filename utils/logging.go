package utils

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LogLevel maps the verbosity flags to a logrus level. The most verbose flag wins.
func LogLevel(quiet, verbose, debug bool) logrus.Level {
	switch {
	case debug:
		return logrus.TraceLevel
	case verbose:
		return logrus.DebugLevel
	case quiet:
		return logrus.ErrorLevel
	}
	return logrus.InfoLevel
}

// NewLogger creates the text logger every command writes its diagnostics to
func NewLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       level < logrus.DebugLevel,
		FullTimestamp:          true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
	return log
}
