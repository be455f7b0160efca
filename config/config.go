package config

import (
	"io"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/RZinth/BA-AD-Core/asyncwriter"
	"github.com/RZinth/BA-AD-Core/core"
	"github.com/RZinth/BA-AD-Core/formatter"
	"github.com/RZinth/BA-AD-Core/handler"
	"github.com/RZinth/BA-AD-Core/logger"
)

// Config describes a complete logging setup.
type Config struct {
	// EnableConsole turns the human-readable console output on.
	EnableConsole bool `envconfig:"ENABLE_CONSOLE" default:"true"`
	// EnableJSON adds a machine-readable JSON stream next to (or instead
	// of) the console output.
	EnableJSON bool `envconfig:"ENABLE_JSON" default:"false"`
	// EnableDebug lowers the minimum level to Debug.
	EnableDebug bool `envconfig:"ENABLE_DEBUG" default:"false"`
	// VerboseMode lowers the minimum level to Trace and wins over
	// EnableDebug.
	VerboseMode bool `envconfig:"VERBOSE" default:"false"`
	// IncludeTimestamps prefixes console lines with a HH:MM:SS clock.
	IncludeTimestamps bool `envconfig:"TIMESTAMPS" default:"true"`
	// DisableColors forces plain output even on a terminal.
	DisableColors bool `envconfig:"NO_COLOR" default:"false"`
	// EnableAsyncWriter routes output through the buffered background
	// writer. When off, every log call writes synchronously.
	EnableAsyncWriter bool `envconfig:"ASYNC" default:"true"`

	// Background writer tuning, used only when EnableAsyncWriter is set.
	BufferCapacity  int           `envconfig:"BUFFER_CAPACITY" default:"8192"`
	FlushInterval   time.Duration `envconfig:"FLUSH_INTERVAL" default:"100ms"`
	ChannelCapacity int           `envconfig:"CHANNEL_CAPACITY" default:"10000"`

	// Output overrides the destination stream (default os.Stdout). Not
	// settable from the environment.
	Output io.Writer `ignored:"true"`
}

// Default returns the default configuration: colored console output with
// timestamps at InfoLevel, through the background writer.
func Default() Config {
	return Config{
		EnableConsole:     true,
		IncludeTimestamps: true,
		EnableAsyncWriter: true,
		BufferCapacity:    8192,
		FlushInterval:     100 * time.Millisecond,
		ChannelCapacity:   10000,
	}
}

// FromEnv builds a Config from LOG_-prefixed environment variables
// (LOG_ENABLE_CONSOLE, LOG_VERBOSE, LOG_FLUSH_INTERVAL, ...), falling
// back to the defaults for unset variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("log", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "loading logging config from environment")
	}
	return cfg, nil
}

// Level resolves the minimum level the configuration asks for.
func (c Config) Level() core.Level {
	switch {
	case c.VerboseMode:
		return core.TraceLevel
	case c.EnableDebug:
		return core.DebugLevel
	default:
		return core.InfoLevel
	}
}

// New assembles a Logger from the configuration. The returned Guard is
// non-nil only when the async writer is enabled; closing it flushes
// buffered output and stops the background worker. Closing the Logger
// closes its handlers but not the shared writer, so the usual shutdown
// order is logger.Close first, then guard.Close.
func New(cfg Config) (*logger.Logger, *asyncwriter.Guard) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	// Color support is probed against the real stream, before it is
	// hidden behind the background writer.
	colors := !cfg.DisableColors && formatter.ColorsSupported(out)

	var guard *asyncwriter.Guard
	sink := out
	if cfg.EnableAsyncWriter {
		var w *asyncwriter.Writer
		w, guard = asyncwriter.NewWithConfig(asyncwriter.Config{
			BufferCapacity:  cfg.BufferCapacity,
			FlushInterval:   cfg.FlushInterval,
			ChannelCapacity: cfg.ChannelCapacity,
			Output:          out,
		})
		// Both streams share the one background writer, like the handlers
		// share the terminal in sync mode.
		sink = w
	}

	var handlers []handler.Handler
	if cfg.EnableConsole {
		handlers = append(handlers, handler.NewConsoleHandler(handler.ConsoleConfig{
			Writer: sink,
			Formatter: formatter.NewConsoleFormatter().
				WithColors(colors).
				WithTimestamps(cfg.IncludeTimestamps),
		}))
	}
	if cfg.EnableJSON {
		handlers = append(handlers, handler.NewConsoleHandler(handler.ConsoleConfig{
			Writer:    sink,
			Formatter: formatter.NewJSONFormatter(formatter.Config{}),
		}))
	}

	b := logger.NewBuilder().WithLevel(cfg.Level())
	switch len(handlers) {
	case 0:
		// No outputs enabled: the logger discards everything.
	case 1:
		b.WithHandler(handlers[0])
	default:
		b.WithHandler(handler.NewMultiHandler(handlers...))
	}

	return b.Build(), guard
}
