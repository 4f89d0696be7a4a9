//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/carelink/clinic-service/internal/domain"
	"github.com/carelink/clinic-service/internal/infrastructure/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper: Setup DB connection and reset state.
func setupRepo(t *testing.T) (*postgres.Repository, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)

	repo := postgres.New(pool, 16)
	require.NoError(t, repo.Migrate(context.Background()))

	_, err = pool.Exec(context.Background(),
		"TRUNCATE TABLE patients, providers, users, institutions, outbox RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	return repo, pool
}

func newUserRow(email string) domain.NewUser {
	return domain.NewUser{Email: email, PasswordHash: "x", Role: domain.RoleProvider}
}

func TestCreateProviderUser_FailedDependentInsert_LeavesNoOrphanUser(t *testing.T) {
	repo, pool := setupRepo(t)
	ctx := context.Background()

	// institution id that does not exist: the providers FK insert must fail
	ghost := uuid.New()
	_, err := repo.CreateProviderUser(ctx, "t1", newUserRow("doc@example.com"), domain.NewProvider{
		FullName:      "Dr. Who",
		InstitutionID: &ghost,
	})
	require.Error(t, err)

	var users int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&users))
	assert.Equal(t, 0, users, "failed registration must roll back the users insert")

	var outbox int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM outbox").Scan(&outbox))
	assert.Equal(t, 0, outbox, "no event may survive a rolled-back registration")
}

func TestCreateProviderUser_WritesBothRowsAndOutbox(t *testing.T) {
	repo, pool := setupRepo(t)
	ctx := context.Background()

	userID, err := repo.CreateProviderUser(ctx, "t1", newUserRow("doc@example.com"), domain.NewProvider{
		FullName: "Dr. Who",
	})
	require.NoError(t, err)

	var providers int
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT count(*) FROM providers WHERE user_id = $1", userID).Scan(&providers))
	assert.Equal(t, 1, providers)

	var outbox int
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT count(*) FROM outbox WHERE routing_key = 'user.registered'").Scan(&outbox))
	assert.Equal(t, 1, outbox)
}

func TestCreateUser_DuplicateEmail_SurfacesSentinel(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.CreateProviderUser(ctx, "t1", newUserRow("doc@example.com"), domain.NewProvider{FullName: "Dr. A"})
	require.NoError(t, err)

	// second insert skips any pre-check and hits the unique index directly
	_, err = repo.CreatePatientUser(ctx, "t2", domain.NewUser{
		Email: "doc@example.com", PasswordHash: "y", Role: domain.RolePatient,
	}, domain.NewPatient{FullName: "Pat"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestConcurrentIncrement_Bounded_DoesNotOvershootMax(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, pool := setupRepo(t)

	userID, err := repo.CreateProviderUser(ctx, "t1", newUserRow("doc@example.com"), domain.NewProvider{
		FullName: "Dr. Who",
	})
	require.NoError(t, err)

	maxCap := 5
	provider, err := repo.UpdateProfile(ctx, domain.EditProvider{UserID: userID, MaxCapacity: &maxCap})
	require.NoError(t, err)
	require.NotNil(t, provider)

	n := 25
	var wg sync.WaitGroup
	wg.Add(n)
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.IncrementCapacity(ctx, "t-conc", provider.ID, domain.CapacityBounded)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, refused := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrProviderAtCapacity):
			refused++
		default:
			t.Fatalf("unexpected increment error: %v", err)
		}
	}
	assert.Equal(t, maxCap, succeeded, "exactly max_capacity increments may win")
	assert.Equal(t, n-maxCap, refused)

	var current int
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT current_capacity FROM providers WHERE id = $1", provider.ID).Scan(&current))
	assert.Equal(t, maxCap, current, "counter must never pass max_capacity")
}

func TestConcurrentIncrement_Unbounded_CountsEveryCall(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, pool := setupRepo(t)

	userID, err := repo.CreateProviderUser(ctx, "t1", newUserRow("doc@example.com"), domain.NewProvider{
		FullName: "Dr. Who",
	})
	require.NoError(t, err)

	// a no-op profile edit is the cheapest way to read the row back by user id
	provider, err := repo.UpdateProfile(ctx, domain.EditProvider{UserID: userID})
	require.NoError(t, err)
	require.NotNil(t, provider)

	n := 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.IncrementCapacity(ctx, "t-conc", provider.ID, domain.CapacityUnbounded)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var current int
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT current_capacity FROM providers WHERE id = $1", provider.ID).Scan(&current))
	assert.Equal(t, n, current, "every increment must land exactly once")
}

func TestInstitution_AddThenListAll_RoundTrip(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	added, err := repo.Add(ctx, "t1", domain.Institution{
		Name: "City Clinic", Address: "1 Main St", City: "Springfield",
	})
	require.NoError(t, err)
	require.NotNil(t, added)
	require.NotEqual(t, uuid.Nil, added.ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "City Clinic", all[0].Name)
	assert.Equal(t, "1 Main St", all[0].Address)
	assert.Equal(t, "Springfield", all[0].City)
}
