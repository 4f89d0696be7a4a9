package service_test

import (
	"context"
	"testing"

	"github.com/carelink/clinic-service/internal/domain"
	"github.com/carelink/clinic-service/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProviderStore struct{ mock.Mock }

func (m *MockProviderStore) ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]domain.Provider, error) {
	args := m.Called(ctx, institutionID)
	var ps []domain.Provider
	if v := args.Get(0); v != nil {
		ps = v.([]domain.Provider)
	}
	return ps, args.Error(1)
}
func (m *MockProviderStore) ListGeneralistsByInstitution(ctx context.Context, institutionID uuid.UUID) ([]domain.Provider, error) {
	args := m.Called(ctx, institutionID)
	var ps []domain.Provider
	if v := args.Get(0); v != nil {
		ps = v.([]domain.Provider)
	}
	return ps, args.Error(1)
}
func (m *MockProviderStore) ListBySpecialization(ctx context.Context, specialization string, institutionID uuid.UUID) ([]domain.Provider, error) {
	args := m.Called(ctx, specialization, institutionID)
	var ps []domain.Provider
	if v := args.Get(0); v != nil {
		ps = v.([]domain.Provider)
	}
	return ps, args.Error(1)
}
func (m *MockProviderStore) UpdateProfile(ctx context.Context, edit domain.EditProvider) (*domain.Provider, error) {
	args := m.Called(ctx, edit)
	var p *domain.Provider
	if v := args.Get(0); v != nil {
		p = v.(*domain.Provider)
	}
	return p, args.Error(1)
}
func (m *MockProviderStore) IncrementCapacity(ctx context.Context, tid string, providerID uuid.UUID, policy domain.CapacityPolicy) (*domain.Provider, error) {
	args := m.Called(ctx, tid, providerID, policy)
	var p *domain.Provider
	if v := args.Get(0); v != nil {
		p = v.(*domain.Provider)
	}
	return p, args.Error(1)
}

func TestDirectoryService_IncrementCapacity_PassesConfiguredPolicy(t *testing.T) {
	store := new(MockProviderStore)
	svc := service.NewDirectoryService(store, domain.CapacityBounded, nopAudit())

	providerID := uuid.New()
	store.On("IncrementCapacity", mock.Anything, "t-1", providerID, domain.CapacityBounded).
		Return(&domain.Provider{ID: providerID, CurrentCapacity: 3}, nil).Once()

	p, err := svc.IncrementCapacity(context.Background(), "t-1", providerID)

	require.NoError(t, err)
	assert.Equal(t, 3, p.CurrentCapacity)
	store.AssertExpectations(t)
}

func TestDirectoryService_IncrementCapacity_AtCapacity(t *testing.T) {
	store := new(MockProviderStore)
	svc := service.NewDirectoryService(store, domain.CapacityBounded, nopAudit())

	providerID := uuid.New()
	store.On("IncrementCapacity", mock.Anything, "t-2", providerID, domain.CapacityBounded).
		Return(nil, domain.ErrProviderAtCapacity).Once()

	p, err := svc.IncrementCapacity(context.Background(), "t-2", providerID)

	assert.ErrorIs(t, err, domain.ErrProviderAtCapacity)
	assert.Nil(t, p)
}

func TestDirectoryService_IncrementCapacity_MissingProvider(t *testing.T) {
	store := new(MockProviderStore)
	svc := service.NewDirectoryService(store, domain.CapacityUnbounded, nopAudit())

	providerID := uuid.New()
	store.On("IncrementCapacity", mock.Anything, "t-3", providerID, domain.CapacityUnbounded).
		Return(nil, nil).Once()

	p, err := svc.IncrementCapacity(context.Background(), "t-3", providerID)

	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDirectoryService_EditProfile_PassThrough(t *testing.T) {
	store := new(MockProviderStore)
	svc := service.NewDirectoryService(store, domain.CapacityUnbounded, nopAudit())

	userID := uuid.New()
	maxCap := 25
	edit := domain.EditProvider{UserID: userID, MaxCapacity: &maxCap}

	store.On("UpdateProfile", mock.Anything, edit).
		Return(&domain.Provider{UserID: userID, MaxCapacity: &maxCap}, nil).Once()

	p, err := svc.EditProfile(context.Background(), edit)

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 25, *p.MaxCapacity)
}

func TestDirectoryService_ListBySpecialization(t *testing.T) {
	store := new(MockProviderStore)
	svc := service.NewDirectoryService(store, domain.CapacityUnbounded, nopAudit())

	instID := uuid.New()
	store.On("ListBySpecialization", mock.Anything, "cardiology", instID).
		Return([]domain.Provider{{FullName: "Dr. A"}, {FullName: "Dr. B"}}, nil).Once()

	ps, err := svc.ListBySpecialization(context.Background(), "cardiology", instID)

	require.NoError(t, err)
	assert.Len(t, ps, 2)
}
