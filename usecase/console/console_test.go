package console

import (
	"bytes"
	"context"
	"encoding/csv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
	"github.com/fastygo/aiops/repository/memory"
	"github.com/fastygo/aiops/usecase/access"
	auditUC "github.com/fastygo/aiops/usecase/audit"
	"github.com/fastygo/aiops/usecase/dashboard"
	"github.com/fastygo/aiops/usecase/views"
)

var (
	admin     = &domain.User{ID: "usr-admin", Name: "Amelia Hart", Email: "admin@royalcyber.com", Role: domain.RoleAdmin}
	operator  = &domain.User{ID: "usr-operator", Name: "Omar Siddiqui", Email: "operator@royalcyber.com", Role: domain.RoleOperator}
	executive = &domain.User{ID: "usr-executive", Name: "Elena Park", Email: "executive@royalcyber.com", Role: domain.RoleExecutive}
	observer  = &domain.User{ID: "usr-observer", Name: "Oliver Grant", Email: "observer@royalcyber.com", Role: domain.RoleObserver}
)

type fixture struct {
	uc       *UseCase
	store    *memory.OpsStore
	audit    repository.AuditRepository
	registry *views.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	seeded := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	store := memory.NewOpsStore(42, seeded)
	creds, err := memory.NewCredentialRepository(memory.DemoPassword, bcrypt.MinCost)
	require.NoError(t, err)
	auditRepo := memory.NewAuditRepository()

	uc := New(store, creds, dashboard.New(store, nil, nil), auditUC.New(nil, auditRepo, nil), nil)
	uc.now = func() time.Time { return seeded.Add(time.Hour) }
	reg := views.NewRegistry()
	uc.Register(reg)
	return fixture{uc: uc, store: store, audit: auditRepo, registry: reg}
}

func (f fixture) auditEntries(t *testing.T, action string) []domain.AuditEntry {
	t.Helper()
	entries, err := f.audit.List(context.Background(), repository.AuditFilter{Action: action})
	require.NoError(t, err)
	return entries
}

func TestRegister_EveryViewHonoursItsAllowList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	names := f.registry.Names()
	assert.Len(t, names, 12)

	for _, name := range names {
		allowed := access.ViewRoles(name)
		for _, user := range []*domain.User{admin, operator, executive, observer} {
			_, err := f.registry.Execute(ctx, name, views.Request{User: user})
			if domain.HasRole(user.Role, allowed...) {
				assert.NoError(t, err, "view=%s role=%s", name, user.Role)
			} else {
				assert.ErrorIs(t, err, domain.ErrForbidden, "view=%s role=%s", name, user.Role)
			}
		}
	}
}

func TestMonitoring_FiltersByService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.uc.Monitoring(ctx, "")
	require.NoError(t, err)
	filtered, err := f.uc.Monitoring(ctx, "svc-payments")
	require.NoError(t, err)

	assert.Less(t, len(filtered.Anomalies), len(all.Anomalies))
	for _, a := range filtered.Anomalies {
		assert.Equal(t, "svc-payments", a.ServiceID)
	}

	_, err = f.uc.Monitoring(ctx, "svc-unknown")
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)
}

func TestAutomation_Summary(t *testing.T) {
	f := newFixture(t)
	view, err := f.uc.Automation(context.Background(), executive)
	require.NoError(t, err)

	assert.Equal(t, 5, view.Summary.Runbooks)
	assert.Equal(t, 3, view.Summary.Automated)
	assert.Equal(t, "60%", view.Summary.AutomationRate)
	assert.False(t, view.CanRun)
	assert.Equal(t, len(view.Executions),
		view.Summary.Running+view.Summary.PendingApproval+view.Summary.Succeeded+view.Summary.Failed)
}

func TestPermissionFlags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	analytics, err := f.uc.Analytics(ctx, executive)
	require.NoError(t, err)
	assert.True(t, analytics.CanExport)
	assert.Len(t, analytics.KPIs, 4)

	chat, err := f.uc.ChatOps(ctx, observer)
	require.NoError(t, err)
	assert.False(t, chat.CanPost)
	assert.LessOrEqual(t, len(chat.Similar), 3)
	for _, inc := range chat.Similar {
		assert.True(t, inc.IsOpen())
	}

	account, err := f.uc.Account(ctx, observer)
	require.NoError(t, err)
	assert.Empty(t, account.Permissions)
}

func TestUserManagement_IncludesAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.RunRunbook(ctx, operator, "rb-unknown", "")
	require.Error(t, err)

	view, err := f.uc.UserManagement(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, view.Users, 4)
	assert.True(t, view.CanViewAudit)
	assert.Len(t, view.Audit, 1)
}

func TestRunRunbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	runbooks, err := f.store.Runbooks(ctx)
	require.NoError(t, err)
	rb := runbooks[0].ID

	execution, err := f.uc.RunRunbook(ctx, operator, rb, "INC-1042")
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionRunning, execution.Status)
	assert.Equal(t, "Omar Siddiqui", execution.TriggeredBy)

	executions, err := f.store.Executions(ctx)
	require.NoError(t, err)
	assert.Equal(t, execution.ID, executions[0].ID)

	_, err = f.uc.RunRunbook(ctx, executive, rb, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.RunRunbook(ctx, nil, rb, "")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	entries := f.auditEntries(t, domain.AuditRunbookRun)
	require.Len(t, entries, 2)
	assert.Equal(t, auditUC.OutcomeDenied, entries[0].Outcome)
	assert.Equal(t, auditUC.OutcomeSuccess, entries[1].Outcome)
}

func TestExportAnalytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.ExportAnalytics(ctx, executive)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"section", "label", "value", "delta"}, rows[0])
	assert.Equal(t, []string{"kpi", "Noise reduction", "35%", "+4 pts"}, rows[1])
	assert.Len(t, rows, 1+4+2*14)

	_, err = f.uc.ExportAnalytics(ctx, observer)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPostMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	msg, err := f.uc.PostMessage(ctx, operator, "  restart the payments pool  ")
	require.NoError(t, err)
	assert.Equal(t, "restart the payments pool", msg.Body)
	assert.Equal(t, "operator", msg.Role)

	messages, err := f.store.ChatMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, messages[len(messages)-1].ID)

	_, err = f.uc.PostMessage(ctx, operator, "   ")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = f.uc.PostMessage(ctx, executive, "hello")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestInjectAnomaly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	anomaly, err := f.uc.InjectAnomaly(ctx, admin, DemoAnomaly())
	require.NoError(t, err)
	assert.NotEmpty(t, anomaly.ID)

	payments, err := f.store.Anomalies(ctx, "svc-payments")
	require.NoError(t, err)
	assert.Equal(t, anomaly.ID, payments[0].ID)

	bad := DemoAnomaly()
	bad.Severity = "catastrophic"
	_, err = f.uc.InjectAnomaly(ctx, admin, bad)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	bad = DemoAnomaly()
	bad.Confidence = 1.5
	_, err = f.uc.InjectAnomaly(ctx, admin, bad)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	missing := DemoAnomaly()
	missing.ServiceID = "svc-ghost"
	_, err = f.uc.InjectAnomaly(ctx, admin, missing)
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)

	_, err = f.uc.InjectAnomaly(ctx, operator, DemoAnomaly())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Len(t, f.auditEntries(t, domain.AuditInjectAnom), 3)
}

func TestInjectIncident(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.store.Incidents(ctx)
	require.NoError(t, err)

	incident, err := f.uc.InjectIncident(ctx, admin, DemoIncident())
	require.NoError(t, err)
	assert.Equal(t, "DEMO-7", incident.ID)
	assert.Equal(t, domain.IncidentOpen, incident.Status)

	after, err := f.store.Incidents(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
	assert.Equal(t, incident.ID, after[0].ID)

	_, err = f.uc.InjectIncident(ctx, admin, IncidentInput{ServiceID: "svc-payments", Title: "x", Severity: "sev0"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = f.uc.InjectIncident(ctx, observer, DemoIncident())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestFeed_MatchesLocalMetrics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	feed, err := f.uc.Feed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, feed.TotalIncidents)
	assert.Equal(t, 4, feed.ActiveCount)
	assert.Len(t, feed.Incidents, 6)

	total := 0
	for i, it := range feed.IncidentTypes {
		total += it.Count
		if i > 0 {
			assert.GreaterOrEqual(t, feed.IncidentTypes[i-1].Count, it.Count)
		}
	}
	assert.Equal(t, feed.TotalIncidents, total)

	for _, inc := range feed.Incidents {
		assert.NotEmpty(t, inc.Number)
		if inc.ClosedAt != "" {
			assert.NotEmpty(t, inc.CloseNotes)
		}
	}
}

func TestInjectIncident_ConcurrentInjectionsGetDistinctIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			incident, err := f.uc.InjectIncident(ctx, admin, DemoIncident())
			if assert.NoError(t, err) {
				ids <- incident.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Len(t, f.auditEntries(t, domain.AuditInjectIncid), n)
}
