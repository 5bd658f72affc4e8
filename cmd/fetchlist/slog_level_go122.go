//go:build go1.22

package main

import "log/slog"

// enableDebugLogging lowers the default slog level to Debug, keeping
// the default handler.
func enableDebugLogging() {
	slog.SetLogLoggerLevel(slog.LevelDebug)
}
