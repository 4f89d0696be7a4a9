package postgres

import (
	"context"
	"errors"

	"github.com/carelink/clinic-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Add inserts the institution and re-reads it by its generated id within
// the same transaction.
func (r *Repository) Add(ctx context.Context, traceID string, inst domain.Institution) (*domain.Institution, error) {
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

	var generatedID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO institutions (name, address, city)
		VALUES ($1, $2, $3)
		RETURNING id
	`, inst.Name, inst.Address, inst.City).Scan(&generatedID)
	if err != nil {
		return nil, err
	}

	added, err := scanInstitution(tx.QueryRow(ctx, `
		SELECT id, name, address, city
		FROM institutions
		WHERE id = $1
	`, generatedID))
	if err != nil {
		return nil, err
	}

	insertOutbox(ctx, tx, traceID, "institution.added", map[string]any{
		"institution_id": generatedID,
		"name":           inst.Name,
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return added, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.Institution, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, city
		FROM institutions
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var institutions []domain.Institution
	for rows.Next() {
		var inst domain.Institution
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Address, &inst.City); err != nil {
			return nil, err
		}
		institutions = append(institutions, inst)
	}
	return institutions, rows.Err()
}

func scanInstitution(row pgx.Row) (*domain.Institution, error) {
	var inst domain.Institution
	err := row.Scan(&inst.ID, &inst.Name, &inst.Address, &inst.City)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}
