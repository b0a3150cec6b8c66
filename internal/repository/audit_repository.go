package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/audit-chat-service/internal/events"
	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

// AuditRepository persists the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event events.Event) error
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns a Postgres-backed implementation.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Insert(ctx context.Context, event events.Event) error {
	const query = `
        INSERT INTO audit_events (event_type, subject_id, detail, occurred_at)
        VALUES ($1, $2, $3, $4)`

	var subjectID *uuid.UUID
	if event.SubjectID != uuid.Nil {
		subjectID = &event.SubjectID
	}

	var detail []byte
	if len(event.Detail) > 0 {
		encoded, err := json.Marshal(event.Detail)
		if err != nil {
			return apperrors.NewInternalError("Internal error occurred while encoding audit event", err)
		}
		detail = encoded
	}

	if _, err := r.pool.Exec(ctx, query, string(event.Type), subjectID, detail, event.OccurredAt); err != nil {
		return apperrors.NewInternalError("Internal error occurred while saving audit event", err)
	}
	return nil
}
