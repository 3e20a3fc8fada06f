package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
)

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns a Postgres-backed audit trail.
func NewAuditRepository(pool *pgxpool.Pool) repository.AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if entry == nil || entry.Action == "" {
		return domain.ErrInvalidPayload
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.Touch()

	const query = `
	INSERT INTO audit_entries (id, at, actor, role, action, target, outcome)
	VALUES ($1, COALESCE($2, NOW()), $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		nullTime(entry.At),
		entry.Actor,
		nullString(string(entry.Role)),
		entry.Action,
		nullString(entry.Target),
		entry.Outcome,
	)
	return err
}

func (r *auditRepository) List(ctx context.Context, filter repository.AuditFilter) ([]domain.AuditEntry, error) {
	const query = `
	SELECT id, at, actor, role, action, target, outcome
	FROM audit_entries
	WHERE ($1 = '' OR actor = $1)
	  AND ($2 = '' OR action = $2)
	ORDER BY at DESC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, filter.Actor, filter.Action, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			entry  domain.AuditEntry
			role   sql.NullString
			target sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.At, &entry.Actor, &role, &entry.Action, &target, &entry.Outcome); err != nil {
			return nil, err
		}
		entry.Role = domain.Role(role.String)
		entry.Target = target.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
