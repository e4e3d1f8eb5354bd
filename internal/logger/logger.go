package logger

import (
	"os"

	"github.com/rs/zerolog"
)

const DefaultLogLevel = "info"

// New creates a new logger instance. Output defaults to stderr: stdout
// carries the MCP stdio protocol and command output.
func New(opts ...Option) *zerolog.Logger {
	config := &Config{
		output:       os.Stderr,
		level:        zerolog.InfoLevel,
		excludeParts: []string{zerolog.TimestampFieldName},
		isDev:        true,
	}

	for _, opt := range opts {
		opt.apply(config)
	}

	ctx := zerolog.New(config.output).
		Level(config.level).
		With()
	if config.timestamp {
		ctx = ctx.Timestamp()
	}
	logger := ctx.Logger()

	if config.isDev {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:          config.output,
			PartsExclude: config.excludeParts,
		})
	}

	return &logger
}

// NewConsoleLogger returns the logger used by the CLI commands.
func NewConsoleLogger() *zerolog.Logger {
	return New(
		WithLevel(DefaultLogLevel),
		WithOutput(os.Stderr),
		WithConsoleWriter(true),
	)
}

// NewServerLogger returns the logger used while serving MCP requests:
// timestamped JSON lines on stderr.
func NewServerLogger(level string) *zerolog.Logger {
	return New(
		WithLevel(level),
		WithOutput(os.Stderr),
		WithConsoleWriter(false),
		WithTimestamp(true),
	)
}
