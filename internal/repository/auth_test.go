package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/carelink/clinic-service/internal/domain"
	"github.com/carelink/clinic-service/internal/pkg/metrics"
	"github.com/carelink/clinic-service/internal/repository"
	"github.com/carelink/clinic-service/internal/response"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockIdentity struct{ mock.Mock }

func (m *MockIdentity) Register(ctx context.Context, tid string, req domain.RegisterRequest) (domain.IdentityResponse, error) {
	args := m.Called(ctx, tid, req)
	return args.Get(0).(domain.IdentityResponse), args.Error(1)
}
func (m *MockIdentity) Login(ctx context.Context, req domain.LoginRequest) (domain.IdentityResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.IdentityResponse), args.Error(1)
}

func testMetrics() *metrics.Metrics {
	return metrics.NewWith(prometheus.NewRegistry())
}

func TestAuthRepository_Register_InvalidRole_NoServiceCall(t *testing.T) {
	identity := new(MockIdentity)
	repo := repository.NewAuthRepository(identity, testMetrics())

	res := repo.Register(context.Background(), "t", domain.RegisterRequest{
		Email: "x@example.com", Password: "pw", Role: domain.Role("admin"),
	})

	assert.False(t, res.IsSuccess())
	assert.Equal(t, response.ReasonValidation, res.Reason())
	assert.Equal(t, "registration failed", res.Message())
	identity.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthRepository_Register_Success(t *testing.T) {
	identity := new(MockIdentity)
	repo := repository.NewAuthRepository(identity, testMetrics())

	req := domain.RegisterRequest{Email: "doc@example.com", Password: "pw", Role: domain.RoleProvider}
	identity.On("Register", mock.Anything, "t-1", req).
		Return(domain.IdentityResponse{UserID: "u1", Email: req.Email, Role: req.Role, Token: "tok"}, nil).Once()

	res := repo.Register(context.Background(), "t-1", req)

	assert.True(t, res.IsSuccess())
	assert.Equal(t, "registration succeeded", res.Message())
	data, ok := res.Data()
	assert.True(t, ok)
	assert.Equal(t, "tok", data.Token)
}

func TestAuthRepository_Register_DuplicateEmail(t *testing.T) {
	identity := new(MockIdentity)
	repo := repository.NewAuthRepository(identity, testMetrics())

	req := domain.RegisterRequest{Email: "doc@example.com", Password: "pw", Role: domain.RoleProvider}
	identity.On("Register", mock.Anything, "t", req).
		Return(domain.IdentityResponse{}, domain.ErrDuplicateEmail).Once()

	res := repo.Register(context.Background(), "t", req)

	assert.False(t, res.IsSuccess())
	assert.Equal(t, response.ReasonDuplicateEmail, res.Reason())
	assert.Equal(t, "user with this email already exists", res.Message())
}

func TestAuthRepository_Register_PersistenceFailure(t *testing.T) {
	identity := new(MockIdentity)
	repo := repository.NewAuthRepository(identity, testMetrics())

	req := domain.RegisterRequest{Email: "doc@example.com", Password: "pw", Role: domain.RolePatient}
	identity.On("Register", mock.Anything, "t", req).
		Return(domain.IdentityResponse{}, errors.New("db down")).Once()

	res := repo.Register(context.Background(), "t", req)

	assert.False(t, res.IsSuccess())
	assert.Equal(t, response.ReasonPersistence, res.Reason())
	assert.Equal(t, "registration failed", res.Message())
}

func TestAuthRepository_Login_Success(t *testing.T) {
	identity := new(MockIdentity)
	repo := repository.NewAuthRepository(identity, testMetrics())

	req := domain.LoginRequest{Email: "doc@example.com", Password: "pw"}
	identity.On("Login", mock.Anything, req).
		Return(domain.IdentityResponse{UserID: "u1", Token: "tok"}, nil).Once()

	res := repo.Login(context.Background(), req)

	assert.True(t, res.IsSuccess())
	assert.Equal(t, "user logged in", res.Message())
}

func TestAuthRepository_Login_AuthenticationFailed(t *testing.T) {
	identity := new(MockIdentity)
	repo := repository.NewAuthRepository(identity, testMetrics())

	req := domain.LoginRequest{Email: "doc@example.com", Password: "wrong"}
	identity.On("Login", mock.Anything, req).
		Return(domain.IdentityResponse{}, domain.ErrAuthenticationFailed).Once()

	res := repo.Login(context.Background(), req)

	assert.False(t, res.IsSuccess())
	assert.Equal(t, response.ReasonAuthFailed, res.Reason())
	assert.Equal(t, "login failed", res.Message())
}
