package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogOptions configures a Logger.
type LogOptions struct {
	Level  string // trace, debug, info, warn, error; default info
	Format string // json or console; default json
	Output io.Writer

	// Dir, when set, also writes to a timestamped file under Dir named after Name.
	Dir  string
	Name string
}

// Logger is a zerolog logger that may own a log file.
type Logger struct {
	zerolog.Logger
	file *os.File
}

func NewLogger(opts LogOptions) (*Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	var file *os.File
	if opts.Dir != "" {
		sanitized := strings.ReplaceAll(strings.ToLower(opts.Name), " ", "_")
		if sanitized == "" {
			sanitized = "triposia"
		}
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}

		timestamp := time.Now().Format("2006-01-02_15-04-05")
		logPath := filepath.Join(opts.Dir, fmt.Sprintf("%s_%s.log", sanitized, timestamp))

		f, err := os.Create(logPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		file = f
		out = io.MultiWriter(out, file)
	}

	logger := zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
	return &Logger{Logger: logger, file: file}, nil
}

// ParseLevel maps a level name to zerolog, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Path returns the log file path, or "" when logging only to the stream.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
