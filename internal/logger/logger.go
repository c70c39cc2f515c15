// Package logger configures the process-wide zerolog logger and hands out
// component-scoped sub-loggers.
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Output formats accepted by Configure.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Configure sets up the global logger. Level is one of trace, debug, info,
// warn, error; format is "console" for human-readable terminal output or
// "json" for structured line-delimited output.
func Configure(level, format string) error {
	zerolog.TimeFieldFormat = time.RFC3339

	parsed, err := parseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)

	var out = os.Stderr
	switch strings.ToLower(format) {
	case FormatJSON:
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	case FormatConsole, "":
		writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	default:
		return fmt.Errorf("unknown log format: %s", format)
	}
	return nil
}

// SetLevel adjusts the global level without touching the output format.
// Unknown levels are ignored.
func SetLevel(level string) {
	if parsed, err := parseLevel(level); err == nil {
		zerolog.SetGlobalLevel(parsed)
	}
}

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info", "":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}

// Component returns a sub-logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func Debug(format string, v ...any) {
	log.Debug().Msgf(format, v...)
}

func Info(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func Warn(format string, v ...any) {
	log.Warn().Msgf(format, v...)
}

func Error(format string, v ...any) {
	log.Error().Msgf(format, v...)
}
