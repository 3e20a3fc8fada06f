package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/aiops/repository"
)

// Registry owns the stores of every client seen by this process.
type Registry struct {
	credentials repository.CredentialRepository
	mirror      repository.SessionRepository
	logger      *zap.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(credentials repository.CredentialRepository, mirror repository.SessionRepository, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		credentials: credentials,
		mirror:      mirror,
		logger:      logger,
		stores:      make(map[string]*Store),
	}
}

// Get returns the hydrated store for id, creating it on first use.
func (r *Registry) Get(ctx context.Context, id string) *Store {
	r.mu.Lock()
	store, ok := r.stores[id]
	if !ok {
		store = NewStore(id, r.credentials, r.mirror, r.logger)
		r.stores[id] = store
	}
	r.mu.Unlock()

	store.Hydrate(ctx)
	return store
}

// Peek returns the store for id without creating or hydrating it.
func (r *Registry) Peek(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[id]
	return store, ok
}

// Open creates a store under a fresh id.
func (r *Registry) Open(ctx context.Context) *Store {
	return r.Get(ctx, uuid.NewString())
}

// Forget drops the in-process store; the mirror is left alone.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
