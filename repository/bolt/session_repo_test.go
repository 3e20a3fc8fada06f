package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/aiops/domain"
)

func openTestRepo(t *testing.T, path string) *SessionRepository {
	t.Helper()
	repo, err := OpenSessionRepository(path)
	require.NoError(t, err)
	return repo
}

func TestSessionRepository_SaveLoadDelete(t *testing.T) {
	repo := openTestRepo(t, filepath.Join(t.TempDir(), "sessions.db"))
	defer repo.Close()
	ctx := context.Background()

	_, err := repo.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	user := &domain.User{ID: "u-1", Name: "Amelia Hart", Email: "admin@royalcyber.com", Role: domain.RoleAdmin, LastLogin: time.Now().UTC()}
	require.NoError(t, repo.Save(ctx, "sid-1", user))

	loaded, err := repo.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, user.Email, loaded.Email)
	assert.Equal(t, domain.RoleAdmin, loaded.Role)

	size, err := repo.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	require.NoError(t, repo.Delete(ctx, "sid-1"))
	_, err = repo.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// deleting twice is fine
	require.NoError(t, repo.Delete(ctx, "sid-1"))
}

func TestSessionRepository_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sessions.db")
	ctx := context.Background()

	repo := openTestRepo(t, path)
	require.NoError(t, repo.Save(ctx, "sid-2", &domain.User{ID: "u-2", Email: "observer@royalcyber.com", Role: domain.RoleObserver}))
	require.NoError(t, repo.Close())

	reopened := openTestRepo(t, path)
	defer reopened.Close()

	user, err := reopened.Load(ctx, "sid-2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleObserver, user.Role)
}

func TestSessionRepository_RejectsEmptyInput(t *testing.T) {
	repo := openTestRepo(t, filepath.Join(t.TempDir(), "sessions.db"))
	defer repo.Close()

	err := repo.Save(context.Background(), "", &domain.User{})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	err = repo.Save(context.Background(), "sid", nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
