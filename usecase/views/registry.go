package views

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/usecase/access"
)

// Request carries the caller and the query-string parameters of a view.
type Request struct {
	User   *domain.User
	Params map[string]string
}

func (r Request) Param(key string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[key]
}

type Query func(ctx context.Context, req Request) (interface{}, error)

type entry struct {
	roles []domain.Role
	query Query
}

// Registry maps view names to their role allow-list and query.
type Registry struct {
	mu    sync.RWMutex
	views map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{views: make(map[string]entry)}
}

// Register adds a view. Registering the same name twice panics.
func (r *Registry) Register(name string, roles []domain.Role, query Query) {
	if query == nil {
		panic(fmt.Sprintf("views: nil query for %s", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.views[name]; dup {
		panic(fmt.Sprintf("views: %s registered twice", name))
	}
	r.views[name] = entry{roles: append([]domain.Role(nil), roles...), query: query}
}

// Execute runs the view for req.User. Unknown views, missing users and
// roles outside the allow-list fail before the query runs.
func (r *Registry) Execute(ctx context.Context, name string, req Request) (interface{}, error) {
	r.mu.RLock()
	view, ok := r.views[name]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrViewNotFound
	}
	if req.User == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if !access.RequireRole(req.User, view.roles...) {
		return nil, domain.ErrForbidden
	}
	return view.query(ctx, req)
}

// Roles returns the allow-list of name.
func (r *Registry) Roles(name string) ([]domain.Role, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	view, ok := r.views[name]
	if !ok {
		return nil, false
	}
	return append([]domain.Role(nil), view.roles...), true
}

// Names lists registered views in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.views))
	for name := range r.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Visible lists the views role may open.
func (r *Registry) Visible(role domain.Role) []string {
	var out []string
	for _, name := range r.Names() {
		roles, _ := r.Roles(name)
		if domain.HasRole(role, roles...) {
			out = append(out, name)
		}
	}
	return out
}
