package usecase

import (
	"context"

	"github.com/fastygo/aiops/domain"
)

// AuditWriter accepts audit entries. Audit repositories satisfy it directly;
// the spooling bridge wraps one so writes survive a storage outage.
type AuditWriter interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
}
