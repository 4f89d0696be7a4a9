package postgres

import (
	"context"
	"errors"

	"github.com/carelink/clinic-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const providerColumns = `id, user_id, full_name, specialization, institution_id, max_capacity, current_capacity, is_generalist`

func (r *Repository) ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]domain.Provider, error) {
	return r.listProviders(ctx, `
		SELECT `+providerColumns+`
		FROM providers
		WHERE institution_id = $1
	`, institutionID)
}

func (r *Repository) ListGeneralistsByInstitution(ctx context.Context, institutionID uuid.UUID) ([]domain.Provider, error) {
	return r.listProviders(ctx, `
		SELECT `+providerColumns+`
		FROM providers
		WHERE institution_id = $1 AND is_generalist = true
	`, institutionID)
}

func (r *Repository) ListBySpecialization(ctx context.Context, specialization string, institutionID uuid.UUID) ([]domain.Provider, error) {
	return r.listProviders(ctx, `
		SELECT `+providerColumns+`
		FROM providers
		WHERE lower(specialization) = lower($1) AND institution_id = $2
	`, specialization, institutionID)
}

// UpdateProfile overwrites only the columns present in edit, keyed by the
// provider's owning user id, then re-reads the row in the same transaction.
func (r *Repository) UpdateProfile(ctx context.Context, edit domain.EditProvider) (*domain.Provider, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE providers
		SET max_capacity   = COALESCE($2, max_capacity),
		    institution_id = COALESCE($3, institution_id)
		WHERE user_id = $1
	`, edit.UserID, edit.MaxCapacity, edit.InstitutionID)
	if err != nil {
		return nil, err
	}

	provider, err := scanProvider(tx.QueryRow(ctx, `
		SELECT `+providerColumns+`
		FROM providers
		WHERE user_id = $1
	`, edit.UserID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return provider, nil
}

// IncrementCapacity adds exactly 1 to current_capacity. The row is locked
// for the duration of the transaction, so concurrent increments serialize
// and the policy check sees the latest committed counter; under the bounded
// policy a full provider yields domain.ErrProviderAtCapacity.
func (r *Repository) IncrementCapacity(ctx context.Context, traceID string, providerID uuid.UUID, policy domain.CapacityPolicy) (*domain.Provider, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current int
	var max *int
	err = tx.QueryRow(ctx, `
		SELECT current_capacity, max_capacity
		FROM providers
		WHERE id = $1
		FOR UPDATE
	`, providerID).Scan(&current, &max)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !policy.Allows(current, max) {
		return nil, domain.ErrProviderAtCapacity
	}

	provider, err := scanProvider(tx.QueryRow(ctx, `
		UPDATE providers
		SET current_capacity = current_capacity + 1
		WHERE id = $1
		RETURNING `+providerColumns, providerID))
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}

	insertOutbox(ctx, tx, traceID, "provider.capacity_changed", map[string]any{
		"provider_id":      provider.ID,
		"current_capacity": provider.CurrentCapacity,
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return provider, nil
}

func (r *Repository) listProviders(ctx context.Context, query string, args ...any) ([]domain.Provider, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []domain.Provider
	for rows.Next() {
		var p domain.Provider
		if err := rows.Scan(&p.ID, &p.UserID, &p.FullName, &p.Specialization,
			&p.InstitutionID, &p.MaxCapacity, &p.CurrentCapacity, &p.IsGeneralist); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func scanProvider(row pgx.Row) (*domain.Provider, error) {
	var p domain.Provider
	err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Specialization,
		&p.InstitutionID, &p.MaxCapacity, &p.CurrentCapacity, &p.IsGeneralist)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
