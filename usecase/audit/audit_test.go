package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
	"github.com/fastygo/aiops/repository/memory"
)

type failingWriter struct{}

func (failingWriter) Append(context.Context, *domain.AuditEntry) error {
	return errors.New("disk full")
}

func TestRecordAndList(t *testing.T) {
	repo := memory.NewAuditRepository()
	uc := New(nil, repo, nil)
	admin := &domain.User{Email: "admin@royalcyber.com", Role: domain.RoleAdmin}

	uc.Record(context.Background(), admin, domain.AuditLogin, "", OutcomeSuccess)
	uc.Record(context.Background(), nil, domain.AuditLoginFailed, "ghost@royalcyber.com", OutcomeDenied)

	entries, err := uc.List(context.Background(), repository.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditLoginFailed, entries[0].Action)
	assert.Empty(t, entries[0].Actor)
	assert.Equal(t, domain.RoleAdmin, entries[1].Role)

	filtered, err := uc.List(context.Background(), repository.AuditFilter{Actor: "admin@royalcyber.com"})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestRecord_WriterFailureIsSwallowed(t *testing.T) {
	repo := memory.NewAuditRepository()
	uc := New(failingWriter{}, repo, nil)

	assert.NotPanics(t, func() {
		uc.Record(context.Background(), nil, domain.AuditLogout, "", OutcomeSuccess)
	})
	entries, err := uc.List(context.Background(), repository.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, OutcomeOf(nil))
	assert.Equal(t, OutcomeDenied, OutcomeOf(domain.ErrForbidden))
	assert.Equal(t, OutcomeDenied, OutcomeOf(domain.ErrInvalidCredentials))
	assert.Equal(t, OutcomeFailure, OutcomeOf(domain.ErrRunbookNotFound))
}
