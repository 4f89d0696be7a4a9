package service

import (
	"context"

	"github.com/carelink/clinic-service/internal/audit"
	"github.com/carelink/clinic-service/internal/domain"
	"github.com/google/uuid"
)

// DirectoryService exposes provider queries and capacity-aware mutations.
// "Not found" and "empty" outcomes are nil/empty returns, never errors;
// classification into envelopes happens one layer up.
type DirectoryService struct {
	store  domain.ProviderStore
	policy domain.CapacityPolicy
	audit  *audit.Logger
}

func NewDirectoryService(store domain.ProviderStore, policy domain.CapacityPolicy, audit *audit.Logger) *DirectoryService {
	return &DirectoryService{store: store, policy: policy, audit: audit}
}

func (s *DirectoryService) ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]domain.Provider, error) {
	return s.store.ListByInstitution(ctx, institutionID)
}

func (s *DirectoryService) ListGeneralistsByInstitution(ctx context.Context, institutionID uuid.UUID) ([]domain.Provider, error) {
	return s.store.ListGeneralistsByInstitution(ctx, institutionID)
}

// ListBySpecialization matches the specialization case-insensitively and
// the institution exactly.
func (s *DirectoryService) ListBySpecialization(ctx context.Context, specialization string, institutionID uuid.UUID) ([]domain.Provider, error) {
	return s.store.ListBySpecialization(ctx, specialization, institutionID)
}

// EditProfile partially updates the provider owned by edit.UserID. Nil
// fields stay untouched. Returns nil when no provider belongs to that user.
func (s *DirectoryService) EditProfile(ctx context.Context, edit domain.EditProvider) (*domain.Provider, error) {
	return s.store.UpdateProfile(ctx, edit)
}

// IncrementCapacity bumps current_capacity by exactly 1. Whether the
// increment may pass max_capacity is the configured policy's call; under
// CapacityBounded a full provider yields domain.ErrProviderAtCapacity.
func (s *DirectoryService) IncrementCapacity(ctx context.Context, traceID string, providerID uuid.UUID) (*domain.Provider, error) {
	provider, err := s.store.IncrementCapacity(ctx, traceID, providerID, s.policy)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		s.audit.CapacityChanged(ctx, provider.ID, provider.CurrentCapacity)
	}
	return provider, nil
}
