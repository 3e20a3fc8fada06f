package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
	"github.com/fastygo/aiops/repository/memory"
)

const (
	adminEmail    = "admin@royalcyber.com"
	observerEmail = "observer@royalcyber.com"
)

func newCredentials(t *testing.T) repository.CredentialRepository {
	t.Helper()
	creds, err := memory.NewCredentialRepository(memory.DemoPassword, bcrypt.MinCost)
	require.NoError(t, err)
	return creds
}

type brokenMirror struct{}

func (brokenMirror) Load(context.Context, string) (*domain.User, error) {
	return nil, errors.New("disk on fire")
}
func (brokenMirror) Save(context.Context, string, *domain.User) error { return errors.New("disk on fire") }
func (brokenMirror) Delete(context.Context, string) error             { return errors.New("disk on fire") }

func TestStore_StartsUnhydrated(t *testing.T) {
	store := NewStore("sid", newCredentials(t), memory.NewSessionRepository(), nil)

	assert.False(t, store.Hydrated())
	assert.Equal(t, domain.SessionUnhydrated, store.State())

	store.Hydrate(context.Background())
	assert.True(t, store.Hydrated())
	assert.Equal(t, domain.SessionNoUser, store.State())
}

func TestStore_HydrateRestoresMirroredUser(t *testing.T) {
	ctx := context.Background()
	mirror := memory.NewSessionRepository()
	require.NoError(t, mirror.Save(ctx, "sid", &domain.User{ID: "usr-admin", Email: adminEmail, Role: domain.RoleAdmin}))

	store := NewStore("sid", newCredentials(t), mirror, nil)
	store.Hydrate(ctx)

	assert.Equal(t, domain.SessionWithUser, store.State())
	assert.Equal(t, domain.RoleAdmin, store.User().Role)
}

func TestStore_HydrateRunsOnce(t *testing.T) {
	ctx := context.Background()
	mirror := memory.NewSessionRepository()
	store := NewStore("sid", newCredentials(t), mirror, nil)
	store.Hydrate(ctx)

	// a user appearing in the mirror later must not be picked up
	require.NoError(t, mirror.Save(ctx, "sid", &domain.User{ID: "usr-admin", Role: domain.RoleAdmin}))
	store.Hydrate(ctx)

	assert.Equal(t, domain.SessionNoUser, store.State())
}

func TestStore_HydrateToleratesMirrorFailure(t *testing.T) {
	store := NewStore("sid", newCredentials(t), brokenMirror{}, nil)
	store.Hydrate(context.Background())

	assert.True(t, store.Hydrated())
	assert.Nil(t, store.User())
}

func TestStore_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantRole domain.Role
		wantErr  error
	}{
		{name: "admin", email: adminEmail, password: memory.DemoPassword, wantRole: domain.RoleAdmin},
		{name: "observer", email: observerEmail, password: memory.DemoPassword, wantRole: domain.RoleObserver},
		{name: "wrong password", email: adminEmail, password: "passw0rd!", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown email", email: "intruder@example.com", password: memory.DemoPassword, wantErr: domain.ErrInvalidCredentials},
		{name: "email must match exactly", email: " admin@royalcyber.com", password: memory.DemoPassword, wantErr: domain.ErrInvalidCredentials},
		{name: "empty", wantErr: domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mirror := memory.NewSessionRepository()
			store := NewStore("sid", newCredentials(t), mirror, nil)

			user, err := store.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Equal(t, domain.SessionNoUser, store.State())
				_, loadErr := mirror.Load(ctx, "sid")
				assert.ErrorIs(t, loadErr, domain.ErrSessionNotFound)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.False(t, user.LastLogin.IsZero())
			assert.Equal(t, domain.SessionWithUser, store.State())

			mirrored, err := mirror.Load(ctx, "sid")
			require.NoError(t, err)
			assert.Equal(t, tt.email, mirrored.Email)
		})
	}
}

func TestStore_LoginWhileSignedIn(t *testing.T) {
	ctx := context.Background()
	store := NewStore("sid", newCredentials(t), nil, nil)

	_, err := store.Login(ctx, adminEmail, memory.DemoPassword)
	require.NoError(t, err)

	_, err = store.Login(ctx, observerEmail, memory.DemoPassword)
	assert.ErrorIs(t, err, ErrAlreadySignedIn)
	assert.Equal(t, domain.RoleAdmin, store.User().Role)
}

func TestStore_LogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mirror := memory.NewSessionRepository()
	store := NewStore("sid", newCredentials(t), mirror, nil)

	store.Logout(ctx)
	assert.Equal(t, domain.SessionNoUser, store.State())

	_, err := store.Login(ctx, adminEmail, memory.DemoPassword)
	require.NoError(t, err)

	store.Logout(ctx)
	store.Logout(ctx)
	assert.Equal(t, domain.SessionNoUser, store.State())

	_, err = mirror.Load(ctx, "sid")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_MirrorFailureDoesNotFailLogin(t *testing.T) {
	ctx := context.Background()
	store := NewStore("sid", newCredentials(t), brokenMirror{}, nil)

	_, err := store.Login(ctx, adminEmail, memory.DemoPassword)
	require.NoError(t, err)
	store.Logout(ctx)
	assert.Equal(t, domain.SessionNoUser, store.State())
}

func TestStore_UserIsACopy(t *testing.T) {
	store := NewStore("sid", newCredentials(t), nil, nil)
	_, err := store.Login(context.Background(), adminEmail, memory.DemoPassword)
	require.NoError(t, err)

	u := store.User()
	u.Role = domain.RoleObserver
	assert.Equal(t, domain.RoleAdmin, store.User().Role)
}

func TestRegistry_GetHydratesAndReuses(t *testing.T) {
	ctx := context.Background()
	mirror := memory.NewSessionRepository()
	require.NoError(t, mirror.Save(ctx, "known", &domain.User{ID: "usr-operator", Role: domain.RoleOperator}))

	reg := NewRegistry(newCredentials(t), mirror, nil)

	a := reg.Get(ctx, "known")
	b := reg.Get(ctx, "known")
	assert.Same(t, a, b)
	assert.Equal(t, domain.SessionWithUser, a.State())

	fresh := reg.Open(ctx)
	assert.NotEqual(t, "known", fresh.ID())
	assert.Equal(t, domain.SessionNoUser, fresh.State())
	assert.Equal(t, 2, reg.Len())

	reg.Forget("known")
	_, ok := reg.Peek("known")
	assert.False(t, ok)
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newCredentials(t), memory.NewSessionRepository(), nil)

	var wg sync.WaitGroup
	stores := make([]*Store, 16)
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i] = reg.Get(ctx, "shared")
		}(i)
	}
	wg.Wait()

	for _, s := range stores {
		assert.Same(t, stores[0], s)
		assert.True(t, s.Hydrated())
	}
}
