package events

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const insertDomainEventSQL = `
INSERT INTO domain_events (topic, aggregate_id, payload)
VALUES ($1, $2, $3)
RETURNING id, topic, aggregate_id, payload, occurred_at
`

// PGStore persists domain events in Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

func (s *PGStore) InsertDomainEvent(ctx context.Context, topic, aggregateID string, payload []byte) (DomainEvent, error) {
	var ev DomainEvent
	err := s.Pool.QueryRow(ctx, insertDomainEventSQL, topic, aggregateID, payload).
		Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &ev.Payload, &ev.OccurredAt)
	if err != nil {
		return DomainEvent{}, err
	}
	return ev, nil
}
