package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// insertOutbox enqueues an integration event inside the caller's
// transaction, so the event exists iff the domain write commits. Failures
// are deliberately swallowed: event delivery never vetoes the domain write.
func insertOutbox(ctx context.Context, tx pgx.Tx, traceID, routingKey string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_, _ = tx.Exec(ctx, `
		INSERT INTO outbox (message_id, trace_id, routing_key, payload, occurred_at, status)
		VALUES ($1, $2, $3, $4, NOW(), 'pending')
	`, uuid.New(), traceID, routingKey, body)
}
