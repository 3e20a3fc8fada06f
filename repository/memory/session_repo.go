package memory

import (
	"context"
	"sync"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
)

type sessionRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewSessionRepository returns a process-local session mirror. Nothing survives a restart.
func NewSessionRepository() repository.SessionRepository {
	return &sessionRepository{users: make(map[string]domain.User)}
}

func (r *sessionRepository) Load(_ context.Context, sessionID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &user, nil
}

func (r *sessionRepository) Save(_ context.Context, sessionID string, user *domain.User) error {
	if sessionID == "" || user == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[sessionID] = *user
	return nil
}

func (r *sessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, sessionID)
	return nil
}
