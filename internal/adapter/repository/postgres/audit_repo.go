package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/paymentinstructions/internal/usecase"
)

// execer is the subset of *pgxpool.Pool the audit repository needs.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AuditRepository appends processed instructions to instruction_audit.
type AuditRepository struct {
	db      execer
	retrier *Retrier
}

// NewAuditRepository creates a new audit repository. A nil retrier writes
// once without retrying.
func NewAuditRepository(db execer, retrier *Retrier) *AuditRepository {
	return &AuditRepository{db: db, retrier: retrier}
}

const insertAuditSQL = `
	INSERT INTO instruction_audit (
		id, instruction, type, status, status_code, status_reason,
		http_status, payload, payload_canonical, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10)
`

// Record implements usecase.AuditRecorder.
func (r *AuditRepository) Record(ctx context.Context, entry *usecase.AuditEntry) error {
	if entry == nil || entry.Result == nil {
		return fmt.Errorf("audit entry without result")
	}

	payload, err := json.Marshal(entry.Result.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode audit payload: %w", err)
	}
	canonical, err := jcs.Transform(payload)
	if err != nil {
		return fmt.Errorf("failed to canonicalize audit payload: %w", err)
	}

	p := entry.Result.Payload
	insert := func() error {
		_, err := r.db.Exec(ctx, insertAuditSQL,
			entry.ID,
			entry.Instruction,
			p.Type,
			string(p.Status),
			string(p.StatusCode),
			p.StatusReason,
			entry.Result.HTTPStatus,
			payload,
			string(canonical),
			entry.CreatedAt,
		)
		return err
	}

	if r.retrier == nil {
		err = insert()
	} else {
		err = r.retrier.Retry(ctx, insert)
	}
	if err != nil {
		return fmt.Errorf("failed to insert audit entry %s: %w", entry.ID, err)
	}
	return nil
}
