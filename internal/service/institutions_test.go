package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/carelink/clinic-service/internal/domain"
	"github.com/carelink/clinic-service/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInstitutionStore struct{ mock.Mock }

func (m *MockInstitutionStore) Add(ctx context.Context, tid string, inst domain.Institution) (*domain.Institution, error) {
	args := m.Called(ctx, tid, inst)
	var i *domain.Institution
	if v := args.Get(0); v != nil {
		i = v.(*domain.Institution)
	}
	return i, args.Error(1)
}
func (m *MockInstitutionStore) ListAll(ctx context.Context) ([]domain.Institution, error) {
	args := m.Called(ctx)
	var is []domain.Institution
	if v := args.Get(0); v != nil {
		is = v.([]domain.Institution)
	}
	return is, args.Error(1)
}

func TestInstitutionService_Add_ReturnsStoredRow(t *testing.T) {
	store := new(MockInstitutionStore)
	svc := service.NewInstitutionService(store, nopAudit())

	inst := domain.Institution{Name: "City Clinic", Address: "1 Main St", City: "Springfield"}
	added := inst
	added.ID = uuid.New()

	store.On("Add", mock.Anything, "t", inst).Return(&added, nil).Once()

	got, err := svc.Add(context.Background(), "t", inst)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, added.ID, got.ID)
}

func TestInstitutionService_Add_StoreError(t *testing.T) {
	store := new(MockInstitutionStore)
	svc := service.NewInstitutionService(store, nopAudit())

	store.On("Add", mock.Anything, "t", mock.Anything).Return(nil, errors.New("db down")).Once()

	got, err := svc.Add(context.Background(), "t", domain.Institution{Name: "X"})

	require.Error(t, err)
	assert.Nil(t, got)
}

func TestInstitutionService_ListAll(t *testing.T) {
	store := new(MockInstitutionStore)
	svc := service.NewInstitutionService(store, nopAudit())

	store.On("ListAll", mock.Anything).
		Return([]domain.Institution{{Name: "A"}, {Name: "B"}}, nil).Once()

	got, err := svc.ListAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, got, 2)
}
