// Package console implements the read views and the permission-gated
// actions of the operations console on top of the mock store.
package console

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
	"github.com/fastygo/aiops/usecase/access"
	auditUC "github.com/fastygo/aiops/usecase/audit"
	"github.com/fastygo/aiops/usecase/dashboard"
	"github.com/fastygo/aiops/usecase/views"
)

type UseCase struct {
	ops         repository.OpsRepository
	credentials repository.CredentialRepository
	dashboard   *dashboard.UseCase
	audit       *auditUC.UseCase
	logger      *zap.Logger
	now         func() time.Time
}

func New(
	ops repository.OpsRepository,
	credentials repository.CredentialRepository,
	dash *dashboard.UseCase,
	audit *auditUC.UseCase,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		ops:         ops,
		credentials: credentials,
		dashboard:   dash,
		audit:       audit,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Register publishes every console view on reg.
func (uc *UseCase) Register(reg *views.Registry) {
	add := func(name string, query views.Query) {
		reg.Register(name, access.ViewRoles(name), query)
	}
	add(access.ViewDashboard, func(ctx context.Context, _ views.Request) (interface{}, error) {
		return uc.dashboard.Build(ctx)
	})
	add(access.ViewIncidents, wrap(uc.Incidents))
	add(access.ViewMonitoring, func(ctx context.Context, req views.Request) (interface{}, error) {
		return uc.Monitoring(ctx, req.Param("service"))
	})
	add(access.ViewAutomation, wrap(uc.Automation))
	add(access.ViewAnalytics, wrap(uc.Analytics))
	add(access.ViewChatOps, wrap(uc.ChatOps))
	add(access.ViewTopology, wrap(uc.Topology))
	add(access.ViewKnowledge, wrap(uc.Knowledge))
	add(access.ViewAgents, wrap(uc.Agents))
	add(access.ViewAccount, wrap(uc.Account))
	add(access.ViewUserManagement, wrap(uc.UserManagement))
	add(access.ViewAdmin, wrap(uc.Admin))
}

func wrap[T any](fn func(ctx context.Context, user *domain.User) (T, error)) views.Query {
	return func(ctx context.Context, req views.Request) (interface{}, error) {
		return fn(ctx, req.User)
	}
}

// authorize checks a permission and audits refusals of audited actions.
func (uc *UseCase) authorize(ctx context.Context, user *domain.User, perm domain.Permission, action, target string) error {
	if user == nil {
		return domain.ErrNotAuthenticated
	}
	if access.Can(user, perm) {
		return nil
	}
	if action != "" {
		uc.audit.Record(ctx, user, action, target, auditUC.OutcomeDenied)
	}
	return domain.ErrForbidden
}
