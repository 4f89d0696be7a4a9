package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carelink/clinic-service/internal/domain"
	"github.com/carelink/clinic-service/internal/pkg/metrics"
	"github.com/carelink/clinic-service/internal/response"
	"github.com/google/uuid"
)

// DirectoryOperations is the slice of DirectoryService the provider adapter
// needs.
type DirectoryOperations interface {
	ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]domain.Provider, error)
	ListGeneralistsByInstitution(ctx context.Context, institutionID uuid.UUID) ([]domain.Provider, error)
	ListBySpecialization(ctx context.Context, specialization string, institutionID uuid.UUID) ([]domain.Provider, error)
	EditProfile(ctx context.Context, edit domain.EditProvider) (*domain.Provider, error)
	IncrementCapacity(ctx context.Context, traceID string, providerID uuid.UUID) (*domain.Provider, error)
}

type ProviderRepository struct {
	directory DirectoryOperations
	metrics   *metrics.Metrics
}

func NewProviderRepository(directory DirectoryOperations, m *metrics.Metrics) *ProviderRepository {
	return &ProviderRepository{directory: directory, metrics: m}
}

// ListByInstitution rejects a missing or malformed institution id before
// the store is ever touched.
func (r *ProviderRepository) ListByInstitution(ctx context.Context, institutionID string) response.ListResult[domain.Provider] {
	id, ok := parseID(institutionID)
	if !ok {
		return response.ErrList[domain.Provider](response.ReasonValidation, "invalid institution data")
	}

	providers, err := r.directory.ListByInstitution(ctx, id)
	if err != nil {
		return response.ErrList[domain.Provider](response.ReasonPersistence, "could not load providers")
	}
	if len(providers) == 0 {
		return response.ErrList[domain.Provider](response.ReasonNotFound, "no providers at this institution")
	}
	return response.OKList(providers, "providers found")
}

func (r *ProviderRepository) ListGeneralistsByInstitution(ctx context.Context, institutionID string) response.ListResult[domain.Provider] {
	id, ok := parseID(institutionID)
	if !ok {
		return response.ErrList[domain.Provider](response.ReasonValidation, "invalid institution data")
	}

	providers, err := r.directory.ListGeneralistsByInstitution(ctx, id)
	if err != nil {
		return response.ErrList[domain.Provider](response.ReasonPersistence, "could not load providers")
	}
	if len(providers) == 0 {
		return response.ErrList[domain.Provider](response.ReasonNotFound, "no generalist providers at this institution")
	}
	return response.OKList(providers, "generalist providers found")
}

// ListBySpecialization requires both filters; either one missing or blank
// fails validation without a query.
func (r *ProviderRepository) ListBySpecialization(ctx context.Context, specialization, institutionID string) response.ListResult[domain.Provider] {
	specialization = strings.TrimSpace(specialization)
	id, ok := parseID(institutionID)
	if specialization == "" || !ok {
		return response.ErrList[domain.Provider](response.ReasonValidation, "invalid input")
	}

	providers, err := r.directory.ListBySpecialization(ctx, specialization, id)
	if err != nil {
		return response.ErrList[domain.Provider](response.ReasonPersistence, "could not load providers")
	}
	if len(providers) == 0 {
		return response.ErrList[domain.Provider](response.ReasonNotFound,
			fmt.Sprintf("no providers of specialization %s at this institution", specialization))
	}
	return response.OKList(providers,
		fmt.Sprintf("providers of specialization %s found", specialization))
}

// EditProfile applies a partial update keyed by the owning user id.
func (r *ProviderRepository) EditProfile(ctx context.Context, req domain.EditProviderRequest) response.Result[domain.Provider] {
	userID, ok := parseID(req.UserID)
	if !ok {
		return response.Err[domain.Provider](response.ReasonValidation, "invalid provider data")
	}

	edit := domain.EditProvider{UserID: userID, MaxCapacity: req.MaxCapacity}
	if req.InstitutionID != nil {
		instID, ok := parseID(*req.InstitutionID)
		if !ok {
			return response.Err[domain.Provider](response.ReasonValidation, "invalid provider data")
		}
		edit.InstitutionID = &instID
	}

	provider, err := r.directory.EditProfile(ctx, edit)
	if err != nil {
		return response.Err[domain.Provider](response.ReasonPersistence, "profile not updated")
	}
	if provider == nil {
		return response.Err[domain.Provider](response.ReasonNotFound, "profile not updated")
	}
	return response.OK(*provider, "profile updated")
}

// IncrementCapacity bumps a provider's current capacity by exactly 1.
func (r *ProviderRepository) IncrementCapacity(ctx context.Context, traceID, providerID string) response.Result[domain.Provider] {
	id, ok := parseID(providerID)
	if !ok {
		return response.Err[domain.Provider](response.ReasonValidation, "missing provider data")
	}

	provider, err := r.directory.IncrementCapacity(ctx, traceID, id)
	switch {
	case errors.Is(err, domain.ErrProviderAtCapacity):
		return response.Err[domain.Provider](response.ReasonCapacityLimit, "provider is at full capacity")
	case err != nil:
		return response.Err[domain.Provider](response.ReasonPersistence, "capacity not updated")
	case provider == nil:
		return response.Err[domain.Provider](response.ReasonNotFound, "capacity not updated")
	}

	r.metrics.CapacityChanges.Inc()
	return response.OK(*provider, "capacity updated")
}

// parseID accepts only a well-formed, non-blank uuid string.
func parseID(s string) (uuid.UUID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
