package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "PENDING"
	StatusSent    = "SENT"
	StatusFailed  = "FAILED"

	// MaxAttempts caps how often a failed event is picked up again.
	MaxAttempts = 5
)

type Event struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	Status        string
	Attempts      int32
	CreatedAt     time.Time
}

// NewEvent builds a pending event with a JSON payload.
func NewEvent(aggregateType, aggregateID, eventType string, payload any) (Event, error) {
	bin, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Event{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       bin,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

//go:generate mockgen -source=outbox_repo.go -destination=../mock/outbox/outbox_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, e Event) error
	ListPending(ctx context.Context, limit int32) ([]Event, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

const (
	createEventSQL = `INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, payload, status, attempts, created_at)
VALUES ($1, $2, $3, $4, $5, $6, 0, $7)`

	listPendingSQL = `SELECT id, aggregate_type, aggregate_id, event_type, payload, status, attempts, created_at
FROM outbox_events
WHERE status = $1 OR (status = $2 AND attempts < $3)
ORDER BY created_at
LIMIT $4`

	markSentSQL   = `UPDATE outbox_events SET status = $2, sent_at = NOW() WHERE id = $1`
	markFailedSQL = `UPDATE outbox_events SET status = $2, attempts = attempts + 1 WHERE id = $1`
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	status TEXT NOT NULL,
	attempts INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	sent_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS outbox_events_status_created_idx ON outbox_events (status, created_at)`

// EnsureSchema creates the outbox table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create outbox schema: %w", err)
	}
	return nil
}

type outboxRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Create(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx, createEventSQL,
		e.ID, e.AggregateType, e.AggregateID, e.EventType, e.Payload, e.Status, e.CreatedAt,
	)
	return err
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int32) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, listPendingSQL, StatusPending, StatusFailed, MaxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID,
			&e.AggregateType,
			&e.AggregateID,
			&e.EventType,
			&e.Payload,
			&e.Status,
			&e.Attempts,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, markSentSQL, id, StatusSent)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, markFailedSQL, id, StatusFailed)
	return err
}

// Discard is used when no database is configured; events are dropped.
var Discard Repository = discard{}

type discard struct{}

func (discard) Create(context.Context, Event) error                 { return nil }
func (discard) ListPending(context.Context, int32) ([]Event, error) { return nil, nil }
func (discard) MarkSent(context.Context, uuid.UUID) error           { return nil }
func (discard) MarkFailed(context.Context, uuid.UUID) error         { return nil }
