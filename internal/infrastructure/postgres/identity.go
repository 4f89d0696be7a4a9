package postgres

import (
	"context"
	"errors"

	"github.com/carelink/clinic-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateProviderUser inserts the users row and its provider row in one
// transaction. A failure on the second insert rolls back the first: no
// orphan user can survive registration.
func (r *Repository) CreateProviderUser(ctx context.Context, traceID string, user domain.NewUser, provider domain.NewProvider) (uuid.UUID, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer release()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	userID, err := insertUser(ctx, tx, user)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO providers (user_id, full_name, specialization, institution_id, max_capacity, is_generalist)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, provider.FullName, provider.Specialization, provider.InstitutionID, provider.MaxCapacity, provider.IsGeneralist)
	if err != nil {
		return uuid.Nil, err
	}

	insertOutbox(ctx, tx, traceID, "user.registered", map[string]any{
		"user_id": userID,
		"role":    domain.RoleProvider,
	})

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

// CreatePatientUser mirrors CreateProviderUser for the patient role.
func (r *Repository) CreatePatientUser(ctx context.Context, traceID string, user domain.NewUser, patient domain.NewPatient) (uuid.UUID, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer release()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	userID, err := insertUser(ctx, tx, user)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO patients (user_id, full_name, selected_provider_id, institution_id)
		VALUES ($1, $2, $3, $4)
	`, userID, patient.FullName, patient.SelectedProviderID, patient.InstitutionID)
	if err != nil {
		return uuid.Nil, err
	}

	insertOutbox(ctx, tx, traceID, "user.registered", map[string]any{
		"user_id": userID,
		"role":    domain.RolePatient,
	})

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

func insertUser(ctx context.Context, tx pgx.Tx, user domain.NewUser) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`, user.Email, user.PasswordHash, string(user.Role)).Scan(&id)
	if err != nil {
		// Two registrations of the same email can both pass the service's
		// pre-check; the loser hits the unique index and must still surface
		// as a duplicate, not a generic store failure.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, domain.ErrDuplicateEmail
		}
		return uuid.Nil, err
	}
	return id, nil
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return scanUser(r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role
		FROM users
		WHERE email = $1
	`, email))
}

func (r *Repository) FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return scanUser(r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role
		FROM users
		WHERE id = $1
	`, id))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}
