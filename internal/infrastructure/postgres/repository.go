package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/semaphore"
)

// Repository implements the identity, provider and institution stores on a
// shared pgx pool. Every operation is a short-lived transaction or single
// statement, and all of them pass through a bounded semaphore so blocking
// I/O never exceeds a fixed number of in-flight operations.
type Repository struct {
	pool   *pgxpool.Pool
	ioGate *semaphore.Weighted
}

func New(pool *pgxpool.Pool, maxConcurrency int) *Repository {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Repository{
		pool:   pool,
		ioGate: semaphore.NewWeighted(int64(maxConcurrency)),
	}
}

// acquire blocks until a blocking-I/O slot is free or ctx is done.
func (r *Repository) acquire(ctx context.Context) (func(), error) {
	if err := r.ioGate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { r.ioGate.Release(1) }, nil
}

// Migrate creates the schema. Foreign keys from providers/patients to
// institutions (and patients to providers) null out on delete: removing a
// referenced row clears the reference, it never deletes the referencing row.
func (r *Repository) Migrate(ctx context.Context) error {
	release, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	_, err = r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS institutions (
			id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			name        text NOT NULL,
			address     text NOT NULL,
			city        text NOT NULL,
			created_at  timestamptz NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS users (
			id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			email          text NOT NULL UNIQUE,
			password_hash  text NOT NULL,
			role           text NOT NULL CHECK (role IN ('provider', 'patient')),
			created_at     timestamptz NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS providers (
			id               uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id          uuid NOT NULL REFERENCES users(id),
			full_name        text NOT NULL,
			specialization   text NOT NULL DEFAULT '',
			institution_id   uuid REFERENCES institutions(id) ON DELETE SET NULL,
			max_capacity     int,
			current_capacity int NOT NULL DEFAULT 0,
			is_generalist    boolean NOT NULL DEFAULT false,
			created_at       timestamptz NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS patients (
			id                   uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id              uuid NOT NULL REFERENCES users(id),
			full_name            text NOT NULL,
			selected_provider_id uuid REFERENCES providers(id) ON DELETE SET NULL,
			institution_id       uuid REFERENCES institutions(id) ON DELETE SET NULL,
			created_at           timestamptz NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS outbox (
			id            bigserial PRIMARY KEY,
			message_id    uuid NOT NULL,
			trace_id      text NOT NULL DEFAULT '',
			routing_key   text NOT NULL,
			payload       jsonb NOT NULL,
			occurred_at   timestamptz NOT NULL DEFAULT NOW(),
			status        text NOT NULL DEFAULT 'pending',
			attempt       int NOT NULL DEFAULT 0,
			next_retry_at timestamptz NOT NULL DEFAULT NOW(),
			last_error    text
		);

		CREATE INDEX IF NOT EXISTS idx_providers_institution ON providers (institution_id);
		CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox (next_retry_at) WHERE status = 'pending';
	`)
	return err
}
