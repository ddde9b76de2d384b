package config

import (
	"context"
	"log/slog"
)

// current is the configuration loaded by the root command, shared with
// subcommand packages that cannot reach the cobra context.
var current *Config

// SetCurrent stashes the loaded configuration for GetCurrent.
func SetCurrent(cfg *Config) { current = cfg }

// GetCurrent returns the configuration loaded by the root command, or nil
// when no command has loaded one yet.
func GetCurrent() *Config { return current }

type loggerKey struct{}

// WithLogger stores the logger in the context for command handlers.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the context, falling back to a
// discarding logger so callers never need a nil check.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}
