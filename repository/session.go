package repository

import (
	"context"

	"github.com/fastygo/aiops/domain"
)

// SessionRepository mirrors the last known user of a session so a new store
// can rehydrate it. Load returns domain.ErrSessionNotFound when nothing is stored.
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (*domain.User, error)
	Save(ctx context.Context, sessionID string, user *domain.User) error
	Delete(ctx context.Context, sessionID string) error
}
