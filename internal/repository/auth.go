// Package repository holds the adapters that sit between the transport and
// the services: they validate identifiers before any store work happens and
// classify every service outcome into the result envelope.
package repository

import (
	"context"
	"errors"

	"github.com/carelink/clinic-service/internal/domain"
	"github.com/carelink/clinic-service/internal/pkg/metrics"
	"github.com/carelink/clinic-service/internal/response"
)

// IdentityOperations is the slice of IdentityService the auth adapter needs.
type IdentityOperations interface {
	Register(ctx context.Context, traceID string, req domain.RegisterRequest) (domain.IdentityResponse, error)
	Login(ctx context.Context, req domain.LoginRequest) (domain.IdentityResponse, error)
}

type AuthRepository struct {
	identity IdentityOperations
	metrics  *metrics.Metrics
}

func NewAuthRepository(identity IdentityOperations, m *metrics.Metrics) *AuthRepository {
	return &AuthRepository{identity: identity, metrics: m}
}

func (r *AuthRepository) Register(ctx context.Context, traceID string, req domain.RegisterRequest) response.Result[domain.IdentityResponse] {
	if !req.Role.Valid() {
		return response.Err[domain.IdentityResponse](response.ReasonValidation, "registration failed")
	}

	res, err := r.identity.Register(ctx, traceID, req)
	switch {
	case err == nil:
		r.metrics.RegistrationsTotal.Inc()
		return response.OK(res, "registration succeeded")
	case errors.Is(err, domain.ErrDuplicateEmail):
		return response.Err[domain.IdentityResponse](response.ReasonDuplicateEmail, "user with this email already exists")
	default:
		return response.Err[domain.IdentityResponse](response.ReasonPersistence, "registration failed")
	}
}

func (r *AuthRepository) Login(ctx context.Context, req domain.LoginRequest) response.Result[domain.IdentityResponse] {
	res, err := r.identity.Login(ctx, req)
	switch {
	case err == nil:
		return response.OK(res, "user logged in")
	case errors.Is(err, domain.ErrAuthenticationFailed):
		r.metrics.LoginFailuresTotal.Inc()
		return response.Err[domain.IdentityResponse](response.ReasonAuthFailed, "login failed")
	default:
		return response.Err[domain.IdentityResponse](response.ReasonPersistence, "login failed")
	}
}
