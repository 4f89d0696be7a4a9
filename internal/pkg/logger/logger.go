package logger

import (
	"context"
	"os"
	"strings"
	"time"

	appCtx "github.com/carelink/clinic-service/internal/pkg/context"
	"github.com/rs/zerolog"
)

// Logger is the process-wide root logger. Init must run before first use.
var Logger zerolog.Logger

// Init configures the root logger from LOG_LEVEL (default info). Output is
// JSON lines on stdout.
func Init() {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	Logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

// WithCtx returns the root logger enriched with the request id carried in
// ctx, if any.
func WithCtx(ctx context.Context) *zerolog.Logger {
	if rid := appCtx.GetRequestID(ctx); rid != "" {
		l := Logger.With().Str("request_id", rid).Logger()
		return &l
	}
	return &Logger
}
