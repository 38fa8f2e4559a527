package observability

import (
	"io"
	"log/slog"

	"github.com/askdb/askdb/internal/config"
)

// NewLogger builds the process logger, tagged with the service name and
// profile. Interactive profiles get a text handler; JSON is opt-in via
// config for log-shipped deployments.
func NewLogger(cfg config.Config, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = io.Discard
	}
	opts := &slog.HandlerOptions{Level: cfg.Observability.LogLevel}
	var handler slog.Handler = slog.NewTextHandler(writer, opts)
	if cfg.Observability.LogJSON {
		handler = slog.NewJSONHandler(writer, opts)
	}
	return slog.New(handler).With(
		slog.String("service", cfg.Service.Name),
		slog.String("profile", string(cfg.Profile)),
	)
}
