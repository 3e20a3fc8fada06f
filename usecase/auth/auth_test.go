package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
	"github.com/fastygo/aiops/repository/memory"
	auditUC "github.com/fastygo/aiops/usecase/audit"
	"github.com/fastygo/aiops/usecase/session"
)

const testSecret = "test-secret"

func newUseCase(t *testing.T) (*UseCase, repository.AuditRepository, *session.Registry) {
	t.Helper()
	creds, err := memory.NewCredentialRepository(memory.DemoPassword, bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := NewTokens(testSecret, "aiops-test", time.Hour)
	require.NoError(t, err)

	registry := session.NewRegistry(creds, memory.NewSessionRepository(), nil)
	auditRepo := memory.NewAuditRepository()
	return New(registry, tokens, auditUC.New(nil, auditRepo, nil), nil), auditRepo, registry
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens, err := NewTokens(testSecret, "aiops-test", time.Hour)
	require.NoError(t, err)

	signed, expires, err := tokens.Issue("sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	sid, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", sid)
}

func TestTokens_Rejects(t *testing.T) {
	tokens, err := NewTokens(testSecret, "aiops-test", time.Hour)
	require.NoError(t, err)
	other, err := NewTokens("other-secret", "aiops-test", time.Hour)
	require.NoError(t, err)
	foreignIssuer, err := NewTokens(testSecret, "someone-else", time.Hour)
	require.NoError(t, err)

	forged, _, err := other.Issue("sid")
	require.NoError(t, err)
	wrongIssuer, _, err := foreignIssuer.Issue("sid")
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := tokens.Issue("sid")
	require.NoError(t, err)
	tokens.now = time.Now

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{SessionID: "sid"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"forged":       forged,
		"expired":      expired,
		"wrong issuer": wrongIssuer,
		"alg none":     unsigned,
	} {
		_, err := tokens.Parse(token)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized), name)
	}
}

func TestNewTokens_RequiresSecret(t *testing.T) {
	_, err := NewTokens("", "x", 0)
	assert.Error(t, err)
}

func TestLogin_IssuesTokenForHydratedSession(t *testing.T) {
	uc, auditRepo, _ := newUseCase(t)
	ctx := context.Background()

	result, err := uc.Login(ctx, "", "operator@royalcyber.com", memory.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, result.User.Role)
	assert.NotEmpty(t, result.Token)

	sess := uc.Resolve(ctx, result.Token)
	assert.Equal(t, domain.SessionWithUser, sess.State())
	assert.Equal(t, "Omar Siddiqui", sess.User.Name)

	entries, err := auditRepo.List(ctx, repository.AuditFilter{Action: domain.AuditLogin})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLogin_InvalidCredentialsAreAudited(t *testing.T) {
	uc, auditRepo, registry := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, "", "admin@royalcyber.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, "Invalid email or password", err.Error())

	entries, err := auditRepo.List(ctx, repository.AuditFilter{Action: domain.AuditLoginFailed})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "admin@royalcyber.com", entries[0].Target)
	assert.Equal(t, auditUC.OutcomeDenied, entries[0].Outcome)
	assert.Zero(t, registry.Len())
}

func TestLogin_FailuresDoNotAccumulateSessions(t *testing.T) {
	uc, _, registry := newUseCase(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, err := uc.Login(ctx, "", "nobody@example.com", "x")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
	assert.Zero(t, registry.Len())

	first, err := uc.Login(ctx, "", "operator@royalcyber.com", memory.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())

	_, err = uc.Login(ctx, first.Token, "operator@royalcyber.com", "wrong")
	assert.Error(t, err)
	assert.Equal(t, 1, registry.Len())
	resolved := uc.Resolve(ctx, first.Token)
	assert.Equal(t, domain.SessionWithUser, resolved.State())
}

func TestLogin_ReusesTokenSession(t *testing.T) {
	uc, _, registry := newUseCase(t)
	ctx := context.Background()

	first, err := uc.Login(ctx, "", "observer@royalcyber.com", memory.DemoPassword)
	require.NoError(t, err)

	_, err = uc.Login(ctx, first.Token, "admin@royalcyber.com", memory.DemoPassword)
	assert.ErrorIs(t, err, session.ErrAlreadySignedIn)
	assert.Equal(t, 1, registry.Len())
}

func TestResolve_WithoutTokenHasNoUser(t *testing.T) {
	uc, _, _ := newUseCase(t)
	sess := uc.Resolve(context.Background(), "")
	assert.Equal(t, domain.SessionNoUser, sess.State())
}

func TestLogout(t *testing.T) {
	uc, auditRepo, registry := newUseCase(t)
	ctx := context.Background()

	result, err := uc.Login(ctx, "", "executive@royalcyber.com", memory.DemoPassword)
	require.NoError(t, err)
	uc.Logout(ctx, result.Token)
	uc.Logout(ctx, result.Token)
	uc.Logout(ctx, "")
	uc.Logout(ctx, "garbage")

	resolved := uc.Resolve(ctx, result.Token)
	assert.Equal(t, domain.SessionNoUser, resolved.State())
	entries, err := auditRepo.List(ctx, repository.AuditFilter{Action: domain.AuditLogout})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, registry.Len())
}

func TestPermissions(t *testing.T) {
	assert.Empty(t, Permissions(domain.Session{Hydrated: true}))
	assert.Len(t, Permissions(domain.Session{Hydrated: true, User: &domain.User{Role: domain.RoleOperator}}), 4)
}
