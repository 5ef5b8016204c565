package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultLogFilePath = "geoedit.log"
	DefaultMaxSizeMB   = 50
	DefaultMaxBackups  = 5
	DefaultMaxAgeDays  = 30
	DefaultCompress    = true
)

const timeFormat = "2006-01-02 15:04:05"

// Options controls where log output goes.
type Options struct {
	// FilePath enables the rotating log file. Empty logs to the console only.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Console receives human readable output. Defaults to stderr, since
	// stdout carries the protocol when serving over stdio.
	Console io.Writer
	NoColor bool
}

// DefaultOptions returns console-only options with the default rotation limits
func DefaultOptions() Options {
	return Options{
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
		Compress:   DefaultCompress,
	}
}

// Apply sets the global log level and output writers (console + optional rotating file).
// The returned closer releases the log file, if one was opened.
func Apply(level string, opts Options) io.Closer {
	applyLevel(level)
	return applyOutputs(opts)
}

func applyLevel(level string) {
	switch level {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func applyOutputs(opts Options) io.Closer {
	out := opts.Console
	if out == nil {
		out = os.Stderr
	}

	consoleOutput := zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat, NoColor: opts.NoColor}
	log.Logger = zerolog.New(consoleOutput).With().Timestamp().Logger()

	if opts.FilePath == "" {
		return nopCloser{}
	}

	if err := ensureLogDir(opts.FilePath); err != nil {
		log.Error().Err(err).Str("path", opts.FilePath).Msg("Failed to prepare log directory; logging to console only")
		return nopCloser{}
	}

	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = DefaultMaxSizeMB
	}

	fileWriter := &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    maxSize,
		MaxBackups: max(opts.MaxBackups, 0),
		MaxAge:     max(opts.MaxAgeDays, 0),
		Compress:   opts.Compress,
	}

	fileConsole := zerolog.ConsoleWriter{
		Out:        fileWriter,
		TimeFormat: timeFormat,
		NoColor:    true,
	}

	multi := zerolog.MultiLevelWriter(consoleOutput, fileConsole)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()
	return fileWriter
}

// FilePathForDB returns a log file path that lives alongside the database file.
func FilePathForDB(dbPath string) string {
	if dbPath == "" {
		return DefaultLogFilePath
	}
	absDBPath, err := filepath.Abs(dbPath)
	if err != nil {
		return filepath.Join(filepath.Dir(dbPath), DefaultLogFilePath)
	}
	return filepath.Join(filepath.Dir(absDBPath), DefaultLogFilePath)
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
