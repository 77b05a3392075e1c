// Package testutil provides shared fixtures and mocks for tests.
package testutil

import (
	"io"
	"log/slog"
)

// NewLogger returns a logger that discards all output, for tests that need
// a *slog.Logger but not its records.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
