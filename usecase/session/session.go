// Package session holds the console session store: at most one signed-in
// user per client session, restored once from a mirror at startup.
//
// State machine:
//
//	Unhydrated -> NoUser | WithUser   (Hydrate)
//	NoUser     -> WithUser            (Login success)
//	WithUser   -> NoUser              (Logout)
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
)

var ErrAlreadySignedIn = domain.NewError(domain.ErrCodeConflict, "already signed in")

// Store is the session of one console client.
type Store struct {
	id          string
	credentials repository.CredentialRepository
	mirror      repository.SessionRepository
	logger      *zap.Logger
	now         func() time.Time

	hydrateOnce sync.Once

	mu       sync.RWMutex
	hydrated bool
	user     *domain.User
}

// NewStore builds an unhydrated store. mirror may be nil, in which case
// nothing is restored or persisted.
func NewStore(id string, credentials repository.CredentialRepository, mirror repository.SessionRepository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		id:          id,
		credentials: credentials,
		mirror:      mirror,
		logger:      logger.With(zap.String("session_id", id)),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) ID() string {
	return s.id
}

// Hydrate restores the last known user from the mirror. Only the first call
// does any work; the store is hydrated afterwards whatever the outcome.
func (s *Store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		var restored *domain.User
		if s.mirror != nil {
			user, err := s.mirror.Load(ctx, s.id)
			switch {
			case err == nil:
				restored = user
			case errors.Is(err, domain.ErrSessionNotFound):
			default:
				s.logger.Warn("session restore failed", zap.Error(err))
			}
		}

		s.mu.Lock()
		s.user = restored
		s.hydrated = true
		s.mu.Unlock()

		if restored != nil {
			s.logger.Debug("session restored", zap.String("user_id", restored.ID))
		}
	})
}

// Login checks the credential table and signs the user in. On failure the
// session is left untouched and domain.ErrInvalidCredentials is returned.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.Hydrate(ctx)

	if s.State() == domain.SessionWithUser {
		return nil, ErrAlreadySignedIn
	}

	cred, err := s.credentials.Lookup(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "credential lookup failed", err)
	}
	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user := cred.User
	user.LastLogin = s.now()

	s.mu.Lock()
	if s.user != nil {
		s.mu.Unlock()
		return nil, ErrAlreadySignedIn
	}
	s.user = &user
	s.mu.Unlock()

	if s.mirror != nil {
		if err := s.mirror.Save(ctx, s.id, &user); err != nil {
			s.logger.Warn("session mirror save failed", zap.Error(err))
		}
	}
	s.logger.Info("user signed in", zap.String("user_id", user.ID), zap.String("role", user.Role.String()))
	return user.Clone(), nil
}

// Logout clears the user. Calling it without a user is a no-op.
func (s *Store) Logout(ctx context.Context) {
	s.Hydrate(ctx)

	s.mu.Lock()
	previous := s.user
	s.user = nil
	s.mu.Unlock()

	if s.mirror != nil {
		if err := s.mirror.Delete(ctx, s.id); err != nil {
			s.logger.Warn("session mirror delete failed", zap.Error(err))
		}
	}
	if previous != nil {
		s.logger.Info("user signed out", zap.String("user_id", previous.ID))
	}
}

// User returns a copy of the signed-in user or nil.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

func (s *Store) State() domain.SessionState {
	snap := s.Snapshot()
	return snap.State()
}

// Snapshot returns a consistent copy of the session.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Session{
		ID:       s.id,
		Hydrated: s.hydrated,
		User:     s.user.Clone(),
	}
}
