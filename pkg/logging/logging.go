// Package logging configures the process-wide zerolog logger. Logs always go
// to stderr (or a file) so stdout carries nothing but scan output.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects level, encoding and destination of the global logger.
type Options struct {
	Level  string
	Format string // "text" or "json"
	File   string // empty means stderr
}

var (
	mu        sync.Mutex
	logWriter io.Writer = os.Stderr
	logFile   *os.File
)

func init() {
	// Levels live on each logger; the global gate is opened fully so -vvv reaches trace.
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	log.Logger = zerolog.New(consoleWriter(os.Stderr)).With().Timestamp().Logger().Level(zerolog.ErrorLevel)
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
}

// ConfigureGlobalLogging installs a global logger built from opts. A previously
// opened log file is closed.
func ConfigureGlobalLogging(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	out := logWriter
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file %s: %w", opts.File, err)
		}
		_ = closeFileLocked()
		logFile = f
		out = f
	}

	if !strings.EqualFold(opts.Format, "json") {
		out = consoleWriter(out)
	}

	ConfigureGlobal(parseLogLevel(opts.Level), out)
	return nil
}

// ConfigureGlobal replaces the global logger. The level is set on the logger
// only; zerolog's global level stays untouched so independently built loggers
// keep their own levels. A nil writer keeps the current destination.
func ConfigureGlobal(level zerolog.Level, w ...io.Writer) {
	out := io.Writer(consoleWriter(logWriter))
	if len(w) > 0 && w[0] != nil {
		out = w[0]
	}

	logContext := zerolog.New(out).With().Timestamp()
	if level <= zerolog.DebugLevel {
		logContext = logContext.Caller()
	}
	log.Logger = logContext.Logger().Level(level)
	zerolog.DefaultContextLogger = &log.Logger
}

// Close releases the log file opened by ConfigureGlobalLogging, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeFileLocked()
}

func closeFileLocked() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// SetLogWriter changes the default destination used when no file is set.
func SetLogWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logWriter = w
}

// parseLogLevel converts a string log level to zerolog.Level
func parseLogLevel(levelString string) zerolog.Level {
	if levelString == "" {
		levelString = "error"
	}

	level, err := zerolog.ParseLevel(strings.ToLower(levelString))
	if err != nil {
		log.Error().Err(err).
			Str("logLevel", levelString).
			Msg("Invalid log level provided. Defaulting to error level.")
		return zerolog.ErrorLevel
	}
	return level
}
