package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/aiops/domain"
	appLogger "github.com/fastygo/aiops/pkg/logger"
	auditUC "github.com/fastygo/aiops/usecase/audit"
	"github.com/fastygo/aiops/usecase/session"
)

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type UseCase struct {
	registry *session.Registry
	tokens   *Tokens
	audit    *auditUC.UseCase
	logger   *zap.Logger
}

func New(registry *session.Registry, tokens *Tokens, audit *auditUC.UseCase, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{registry: registry, tokens: tokens, audit: audit, logger: logger}
}

// Resolve maps a bearer token to its hydrated session. A missing or invalid
// token resolves to a hydrated session without a user.
func (uc *UseCase) Resolve(ctx context.Context, token string) domain.Session {
	sid, err := uc.tokens.Parse(token)
	if err != nil {
		if token != "" {
			appLogger.WithContext(ctx, uc.logger).Debug("rejected bearer token", zap.Error(err))
		}
		return domain.Session{Hydrated: true}
	}
	return uc.registry.Get(ctx, sid).Snapshot()
}

// Login signs a user into the session named by token, or into a new session
// when the token is absent or invalid, and returns a fresh token for it.
func (uc *UseCase) Login(ctx context.Context, token, email, password string) (*LoginResult, error) {
	var (
		store  *session.Store
		opened bool
	)
	if sid, err := uc.tokens.Parse(token); err == nil {
		store = uc.registry.Get(ctx, sid)
	} else {
		store = uc.registry.Open(ctx)
		opened = true
	}
	ctx = appLogger.ContextWithSessionID(ctx, store.ID())

	user, err := store.Login(ctx, email, password)
	if err != nil {
		if opened {
			uc.registry.Forget(store.ID())
		}
		if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			uc.audit.Record(ctx, nil, domain.AuditLoginFailed, email, auditUC.OutcomeDenied)
		}
		return nil, err
	}
	uc.audit.Record(ctx, user, domain.AuditLogin, "", auditUC.OutcomeSuccess)

	signed, expires, err := uc.tokens.Issue(store.ID())
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "token signing failed", err)
	}
	return &LoginResult{Token: signed, ExpiresAt: expires, User: user}, nil
}

// Logout signs out the session named by token. Missing or invalid tokens
// and sessions without a user make it a no-op.
func (uc *UseCase) Logout(ctx context.Context, token string) {
	sid, err := uc.tokens.Parse(token)
	if err != nil {
		return
	}
	store := uc.registry.Get(ctx, sid)
	user := store.User()
	store.Logout(ctx)
	uc.registry.Forget(sid)
	if user != nil {
		uc.audit.Record(ctx, user, domain.AuditLogout, "", auditUC.OutcomeSuccess)
	}
}

// Permissions lists what the session's user may do.
func Permissions(s domain.Session) []domain.Permission {
	if s.User == nil {
		return []domain.Permission{}
	}
	return domain.PermissionsOf(s.User.Role)
}
