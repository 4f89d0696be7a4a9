package audit

import (
	"context"

	"github.com/carelink/clinic-service/internal/domain"
	appCtx "github.com/carelink/clinic-service/internal/pkg/context"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger provides structured audit logging for business events.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// UserRegistered logs a completed registration. The email and password
// never appear here.
func (l *Logger) UserRegistered(ctx context.Context, userID uuid.UUID, role domain.Role) {
	l.log.Info().
		Str("action", "user_registered").
		Str("user_id", userID.String()).
		Str("role", string(role)).
		Str("trace_id", appCtx.GetRequestID(ctx)).
		Msg("User registered")
}

// LoginFailed logs a rejected credential pair. The attempted password is
// never logged.
func (l *Logger) LoginFailed(ctx context.Context, email string) {
	l.log.Warn().
		Str("action", "login_failed").
		Str("email", email).
		Str("trace_id", appCtx.GetRequestID(ctx)).
		Msg("Login rejected")
}

// CapacityChanged logs a provider capacity increment.
func (l *Logger) CapacityChanged(ctx context.Context, providerID uuid.UUID, current int) {
	l.log.Info().
		Str("action", "capacity_changed").
		Str("provider_id", providerID.String()).
		Int("current_capacity", current).
		Str("trace_id", appCtx.GetRequestID(ctx)).
		Msg("Provider capacity updated")
}

// InstitutionAdded logs a new institution record.
func (l *Logger) InstitutionAdded(ctx context.Context, institutionID uuid.UUID, name string) {
	l.log.Info().
		Str("action", "institution_added").
		Str("institution_id", institutionID.String()).
		Str("name", name).
		Str("trace_id", appCtx.GetRequestID(ctx)).
		Msg("Institution added")
}
