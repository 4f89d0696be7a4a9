package service

import (
	"context"
	"fmt"

	"github.com/carelink/clinic-service/internal/audit"
	"github.com/carelink/clinic-service/internal/domain"
	"github.com/carelink/clinic-service/internal/security"
	"github.com/google/uuid"
)

// TokenIssuer abstracts token signing so tests can stub it.
type TokenIssuer interface {
	IssueAccessToken(userID string) (string, error)
}

// IdentityService orchestrates registration and login. Registration spans
// two tables; the store executes both inserts in one transaction.
type IdentityService struct {
	store  domain.IdentityStore
	tokens TokenIssuer
	audit  *audit.Logger
}

func NewIdentityService(store domain.IdentityStore, tokens TokenIssuer, audit *audit.Logger) *IdentityService {
	return &IdentityService{store: store, tokens: tokens, audit: audit}
}

func (s *IdentityService) Register(ctx context.Context, traceID string, req domain.RegisterRequest) (domain.IdentityResponse, error) {
	existing, err := s.store.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return domain.IdentityResponse{}, fmt.Errorf("duplicate check: %w", err)
	}
	if existing != nil {
		return domain.IdentityResponse{}, domain.ErrDuplicateEmail
	}

	digest, err := security.HashPassword(req.Password)
	if err != nil {
		return domain.IdentityResponse{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.NewUser{Email: req.Email, PasswordHash: digest, Role: req.Role}

	var userID uuid.UUID
	switch req.Role {
	case domain.RoleProvider:
		provider, err := buildProvider(req)
		if err != nil {
			return domain.IdentityResponse{}, err
		}
		userID, err = s.store.CreateProviderUser(ctx, traceID, user, provider)
		if err != nil {
			return domain.IdentityResponse{}, fmt.Errorf("create provider user: %w", err)
		}
	case domain.RolePatient:
		patient, err := buildPatient(req)
		if err != nil {
			return domain.IdentityResponse{}, err
		}
		userID, err = s.store.CreatePatientUser(ctx, traceID, user, patient)
		if err != nil {
			return domain.IdentityResponse{}, fmt.Errorf("create patient user: %w", err)
		}
	default:
		return domain.IdentityResponse{}, domain.ErrUnknownRole
	}

	token, err := s.tokens.IssueAccessToken(userID.String())
	if err != nil {
		return domain.IdentityResponse{}, fmt.Errorf("issue token: %w", err)
	}

	created, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return domain.IdentityResponse{}, fmt.Errorf("read back user: %w", err)
	}
	if created == nil {
		return domain.IdentityResponse{}, fmt.Errorf("read back user %s: row missing", userID)
	}

	s.audit.UserRegistered(ctx, created.ID, created.Role)

	return domain.IdentityResponse{
		UserID: created.ID.String(),
		Email:  created.Email,
		Role:   created.Role,
		Token:  token,
	}, nil
}

// Login never dereferences a missing user: an unknown email and a wrong
// password both surface as ErrAuthenticationFailed.
func (s *IdentityService) Login(ctx context.Context, req domain.LoginRequest) (domain.IdentityResponse, error) {
	user, err := s.store.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return domain.IdentityResponse{}, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !security.VerifyPassword(req.Password, user.PasswordHash) {
		s.audit.LoginFailed(ctx, req.Email)
		return domain.IdentityResponse{}, domain.ErrAuthenticationFailed
	}

	token, err := s.tokens.IssueAccessToken(user.ID.String())
	if err != nil {
		return domain.IdentityResponse{}, fmt.Errorf("issue token: %w", err)
	}

	return domain.IdentityResponse{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		Token:  token,
	}, nil
}

// FindUserByEmail backs the registration duplicate check; no side effects.
func (s *IdentityService) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.store.FindUserByEmail(ctx, email)
}

func buildProvider(req domain.RegisterRequest) (domain.NewProvider, error) {
	p := domain.NewProvider{FullName: req.FullName, MaxCapacity: req.MaxCapacity}
	if req.Specialization != nil {
		p.Specialization = *req.Specialization
	}
	if req.IsGeneralist != nil {
		p.IsGeneralist = *req.IsGeneralist
	}
	if req.InstitutionID != nil {
		id, err := uuid.Parse(*req.InstitutionID)
		if err != nil {
			return domain.NewProvider{}, fmt.Errorf("parse institution id: %w", err)
		}
		p.InstitutionID = &id
	}
	return p, nil
}

func buildPatient(req domain.RegisterRequest) (domain.NewPatient, error) {
	p := domain.NewPatient{FullName: req.FullName}
	if req.SelectedProviderID != nil {
		id, err := uuid.Parse(*req.SelectedProviderID)
		if err != nil {
			return domain.NewPatient{}, fmt.Errorf("parse selected provider id: %w", err)
		}
		p.SelectedProviderID = &id
	}
	if req.InstitutionID != nil {
		id, err := uuid.Parse(*req.InstitutionID)
		if err != nil {
			return domain.NewPatient{}, fmt.Errorf("parse institution id: %w", err)
		}
		p.InstitutionID = &id
	}
	return p, nil
}
