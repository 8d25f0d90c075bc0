package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/fairyhunter13/ai-interview-coach/internal/config"
)

// SetupLogger builds the process-wide JSON logger. Dev runs log at debug,
// prod at info, and tests discard output entirely so assertion output stays
// readable.
func SetupLogger(cfg config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	level := slog.LevelInfo
	switch {
	case cfg.IsTest():
		out = io.Discard
	case cfg.IsDev():
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String("service", cfg.OTELServiceName),
		slog.String("env", cfg.AppEnv),
	)
}
