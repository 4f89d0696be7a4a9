package repository

import (
	"context"

	"github.com/carelink/clinic-service/internal/domain"
	"github.com/carelink/clinic-service/internal/response"
)

// InstitutionOperations is the slice of InstitutionService the registry
// adapter needs.
type InstitutionOperations interface {
	Add(ctx context.Context, traceID string, inst domain.Institution) (*domain.Institution, error)
	ListAll(ctx context.Context) ([]domain.Institution, error)
}

type InstitutionRepository struct {
	registry InstitutionOperations
}

func NewInstitutionRepository(registry InstitutionOperations) *InstitutionRepository {
	return &InstitutionRepository{registry: registry}
}

func (r *InstitutionRepository) Add(ctx context.Context, traceID string, inst domain.Institution) response.Result[domain.Institution] {
	added, err := r.registry.Add(ctx, traceID, inst)
	if err != nil {
		return response.Err[domain.Institution](response.ReasonPersistence, "institution not added")
	}
	if added == nil {
		return response.Err[domain.Institution](response.ReasonNotFound, "institution not added")
	}
	return response.OK(*added, "institution added")
}

func (r *InstitutionRepository) ListAll(ctx context.Context) response.ListResult[domain.Institution] {
	institutions, err := r.registry.ListAll(ctx)
	if err != nil {
		return response.ErrList[domain.Institution](response.ReasonPersistence, "could not load institutions")
	}
	if len(institutions) == 0 {
		return response.ErrList[domain.Institution](response.ReasonNotFound, "no institutions")
	}
	return response.OKList(institutions, "institutions found")
}
