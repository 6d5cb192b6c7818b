package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Config holds logger settings loaded from the environment.
type Config struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`  // debug, info, warn or error
	Format  string `env:"LOG_FORMAT" envDefault:"json"` // json, text or tint
	NoColor bool   `env:"LOG_NO_COLOR" envDefault:"false"`
}

// Option configures New.
type Option func(*settings)

type settings struct {
	level   slog.Level
	format  string
	output  io.Writer
	noColor bool
	attrs   []slog.Attr
}

// WithLevel sets the minimum level. Unknown names fall back to info.
func WithLevel(level string) Option {
	return func(s *settings) {
		s.level = ParseLevel(level)
	}
}

// WithFormat selects the "json", "text" or "tint" handler. tint writes
// colorized, human-readable lines for local development.
func WithFormat(format string) Option {
	return func(s *settings) {
		s.format = strings.ToLower(format)
	}
}

// WithOutput sets the destination. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithNoColor disables ANSI colors in the tint format.
func WithNoColor(noColor bool) Option {
	return func(s *settings) {
		s.noColor = noColor
	}
}

// WithAttrs adds attributes to every record, e.g. the service name.
func WithAttrs(attrs ...slog.Attr) Option {
	return func(s *settings) {
		s.attrs = append(s.attrs, attrs...)
	}
}

// New creates a logger writing JSON at info level to stdout unless
// configured otherwise.
func New(opts ...Option) *slog.Logger {
	s := settings{
		level:  slog.LevelInfo,
		format: "json",
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(&s)
	}

	handlerOpts := &slog.HandlerOptions{Level: s.level}
	var h slog.Handler
	switch s.format {
	case "text":
		h = slog.NewTextHandler(s.output, handlerOpts)
	case "tint":
		h = tint.NewHandler(s.output, &tint.Options{
			Level:      s.level,
			TimeFormat: time.TimeOnly,
			NoColor:    s.noColor,
		})
	default:
		h = slog.NewJSONHandler(s.output, handlerOpts)
	}
	if len(s.attrs) > 0 {
		h = h.WithAttrs(s.attrs)
	}
	return slog.New(h)
}

// NewFromConfig creates a logger from cfg. Options override config values.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	base := []Option{WithLevel(cfg.Level), WithFormat(cfg.Format), WithNoColor(cfg.NoColor)}
	return New(append(base, opts...)...)
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
