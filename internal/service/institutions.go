package service

import (
	"context"

	"github.com/carelink/clinic-service/internal/audit"
	"github.com/carelink/clinic-service/internal/domain"
)

type InstitutionService struct {
	store domain.InstitutionStore
	audit *audit.Logger
}

func NewInstitutionService(store domain.InstitutionStore, audit *audit.Logger) *InstitutionService {
	return &InstitutionService{store: store, audit: audit}
}

// Add inserts the institution and re-reads it by its generated id; a nil
// return means the insert did not land.
func (s *InstitutionService) Add(ctx context.Context, traceID string, inst domain.Institution) (*domain.Institution, error) {
	added, err := s.store.Add(ctx, traceID, inst)
	if err != nil {
		return nil, err
	}
	if added != nil {
		s.audit.InstitutionAdded(ctx, added.ID, added.Name)
	}
	return added, nil
}

func (s *InstitutionService) ListAll(ctx context.Context) ([]domain.Institution, error) {
	return s.store.ListAll(ctx)
}
