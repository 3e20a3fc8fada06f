package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
)

const maxAuditEntries = 1000

type auditRepository struct {
	mu      sync.RWMutex
	entries []domain.AuditEntry
}

// NewAuditRepository keeps the most recent audit entries in memory.
func NewAuditRepository() repository.AuditRepository {
	return &auditRepository{}
}

func (r *auditRepository) Append(_ context.Context, entry *domain.AuditEntry) error {
	if entry == nil || entry.Action == "" {
		return domain.ErrInvalidPayload
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.Touch()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	if len(r.entries) > maxAuditEntries {
		r.entries = r.entries[len(r.entries)-maxAuditEntries:]
	}
	return nil
}

// List returns matching entries newest first.
func (r *auditRepository) List(_ context.Context, filter repository.AuditFilter) ([]domain.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := clampLimit(filter.Limit)
	var out []domain.AuditEntry
	skipped := 0
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		entry := r.entries[i]
		if filter.Actor != "" && entry.Actor != filter.Actor {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
