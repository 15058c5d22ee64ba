package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type options struct {
	level  slog.Level
	output io.Writer
	json   bool
	attrs  []slog.Attr
}

// Option configures New.
type Option func(*options)

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithOutput sets the destination writer. Defaults to os.Stderr so that standard
// output stays free for interactive output.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithJSONFormatter switches from text to JSON records.
func WithJSONFormatter() Option {
	return func(o *options) { o.json = true }
}

// WithAttr attaches attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// New creates a logger. Without options it writes text records at info level to stderr.
func New(opts ...Option) *slog.Logger {
	o := options{level: slog.LevelInfo, output: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}
	var h slog.Handler
	if o.json {
		h = slog.NewJSONHandler(o.output, handlerOpts)
	} else {
		h = slog.NewTextHandler(o.output, handlerOpts)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}
	return slog.New(h)
}

// ParseLevel converts debug, info, warn or error (any case) into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
