package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
	"github.com/fastygo/aiops/usecase"
)

const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeFailure = "failure"
)

type UseCase struct {
	writer usecase.AuditWriter
	reader repository.AuditRepository
	logger *zap.Logger
}

// New builds the audit trail. writer may wrap reader with a spool; when nil
// entries go straight to reader.
func New(writer usecase.AuditWriter, reader repository.AuditRepository, logger *zap.Logger) *UseCase {
	if writer == nil {
		writer = reader
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{writer: writer, reader: reader, logger: logger}
}

// Record appends one entry. Failures are logged and never surface to the caller.
func (uc *UseCase) Record(ctx context.Context, actor *domain.User, action, target, outcome string) {
	if uc == nil || uc.writer == nil {
		return
	}
	entry := &domain.AuditEntry{Action: action, Target: target, Outcome: outcome}
	if actor != nil {
		entry.Actor = actor.Email
		entry.Role = actor.Role
	}
	if err := uc.writer.Append(ctx, entry); err != nil {
		uc.logger.Warn("audit entry lost",
			zap.String("action", action),
			zap.String("actor", entry.Actor),
			zap.Error(err))
	}
}

func (uc *UseCase) List(ctx context.Context, filter repository.AuditFilter) ([]domain.AuditEntry, error) {
	if uc == nil || uc.reader == nil {
		return nil, nil
	}
	entries, err := uc.reader.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}

// OutcomeOf maps an action's error to an audit outcome.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case domain.IsDomainError(err, domain.ErrCodeForbidden), domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return OutcomeDenied
	default:
		return OutcomeFailure
	}
}
