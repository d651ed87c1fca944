package ui

import (
	"os"

	"github.com/rs/zerolog"
)

type Logger struct {
	z zerolog.Logger
}

func NewLogger(debug bool) *Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}

	return &Logger{
		z: zerolog.New(out).Level(level).With().Timestamp().Logger(),
	}
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() *Logger {
	return &Logger{z: zerolog.Nop()}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.z.Debug().Msgf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.z.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.z.Warn().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.z.Error().Msgf(format, args...)
}
