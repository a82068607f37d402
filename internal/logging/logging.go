// Package logging builds the zap logger used by the CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a sugared zap logger. Output goes to stderr so that stdout stays free for
// subtitle text.
type Logger struct {
	*zap.SugaredLogger
}

type options struct {
	out   io.Writer
	level string
	color *bool
}

type Option func(*options)

// WithOutput redirects log output, mainly for tests.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithLevel sets the minimum level by name (debug, info, warn, error). Unknown names
// leave the default.
func WithLevel(level string) Option {
	return func(o *options) { o.level = level }
}

// WithColor forces colored level names on or off.
func WithColor(enabled bool) Option {
	return func(o *options) { o.color = &enabled }
}

// NewLogger returns a console logger at info level, or debug when verbose is set.
func NewLogger(verbose bool, opts ...Option) *Logger {
	o := options{out: os.Stderr, level: "info"}
	for _, opt := range opts {
		opt(&o)
	}

	level := parseLevel(o.level)
	if verbose {
		level = zapcore.DebugLevel
	}

	color := isTerminal(o.out)
	if o.color != nil {
		color = *o.color
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.CallerKey = ""
	if color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(o.out)),
		level,
	)

	return &Logger{SugaredLogger: zap.New(core).Sugar()}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// With returns a child logger carrying the given key-value pairs.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

func parseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
