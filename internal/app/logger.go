package app

import (
	"os"

	"log/slog"
)

// NewLogger builds the process-wide slog.Logger. JSON output is meant
// for the production log pipeline; anything else falls back to the
// text handler for local development. Every line carries the service
// name and environment so the two binaries can be told apart in
// aggregated logs.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}

	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	env := "development"
	if cfg != nil {
		env = cfg.AppEnv
	}
	return slog.New(handler).With(
		slog.String("service", "meridian"),
		slog.String("env", env),
	)
}
