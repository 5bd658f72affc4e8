//go:build !go1.22

package main

import (
	"log/slog"
	"os"
)

// enableDebugLogging lowers the slog level to Debug. Toolchains before
// go1.22 lack slog.SetLogLoggerLevel, so the default logger is swapped
// for a text handler on stderr at the debug level instead.
func enableDebugLogging() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
}
