// Command spur-relay is the backend relay the spur CLI's gemini engine
// talks to. It validates /define and /ocr requests, attaches the
// server-held API key and forwards them to the Gemini generateContent
// endpoint.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/thisisbailin/spur/internal/relay"
)

func main() {
	cfg, err := relay.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "spur-relay: %v\n", err)
		os.Exit(1)
	}

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(cfg.LogLevel),
		TimeFormat: time.TimeOnly,
	}))

	server := relay.NewServer(cfg, log, nil)
	log.Info("starting relay", "addr", cfg.Addr(), "model", cfg.Model)
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set, all requests will fail")
	}

	if err := server.ListenAndServe(); err != nil {
		log.Error("relay server stopped", "error", err)
		os.Exit(1)
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
