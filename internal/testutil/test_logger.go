package testutil

import (
	"bytes"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewTestLogger returns a debug logger writing human readable lines to stderr.
func NewTestLogger() *zerolog.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
	return &logger
}

// NewBufferedLogger returns a logger that also records every event as JSON in
// the returned buffer, so tests can assert on emitted fields.
func NewBufferedLogger() (*zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}
	logger := zerolog.New(io.MultiWriter(consoleWriter, &buf)).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
	return &logger, &buf
}
