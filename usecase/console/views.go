package console

import (
	"context"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
	"github.com/fastygo/aiops/usecase/dashboard"
)

type IncidentsView struct {
	Incidents   []domain.Incident     `json:"incidents"`
	ChangeRisks []domain.ChangeRisk   `json:"change_risks"`
	Nodes       []domain.TopologyNode `json:"nodes"`
	Edges       []domain.TopologyEdge `json:"edges"`
}

func (uc *UseCase) Incidents(ctx context.Context, _ *domain.User) (*IncidentsView, error) {
	incidents, err := uc.ops.Incidents(ctx)
	if err != nil {
		return nil, err
	}
	risks, err := uc.ops.ChangeRisks(ctx)
	if err != nil {
		return nil, err
	}
	nodes, edges, err := uc.ops.Topology(ctx)
	if err != nil {
		return nil, err
	}
	return &IncidentsView{Incidents: incidents, ChangeRisks: risks, Nodes: nodes, Edges: edges}, nil
}

type MonitoringView struct {
	Service   string                 `json:"service,omitempty"`
	Services  []domain.Service       `json:"services"`
	Anomalies []domain.Anomaly       `json:"anomalies"`
	Timeline  []domain.TimelineEvent `json:"timeline"`
}

// Monitoring lists anomalies, narrowed to serviceID when it is set.
func (uc *UseCase) Monitoring(ctx context.Context, serviceID string) (*MonitoringView, error) {
	services, err := uc.ops.Services(ctx)
	if err != nil {
		return nil, err
	}
	if serviceID != "" && !hasService(services, serviceID) {
		return nil, domain.ErrServiceNotFound
	}
	anomalies, err := uc.ops.Anomalies(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	timeline, err := uc.ops.Timeline(ctx)
	if err != nil {
		return nil, err
	}
	return &MonitoringView{Service: serviceID, Services: services, Anomalies: anomalies, Timeline: timeline}, nil
}

type AutomationSummary struct {
	Runbooks        int    `json:"runbooks"`
	Automated       int    `json:"automated"`
	AutomationRate  string `json:"automation_rate"`
	Running         int    `json:"running"`
	PendingApproval int    `json:"pending_approval"`
	Succeeded       int    `json:"succeeded"`
	Failed          int    `json:"failed"`
}

type AutomationView struct {
	Runbooks   []domain.Runbook   `json:"runbooks"`
	Executions []domain.Execution `json:"executions"`
	Summary    AutomationSummary  `json:"summary"`
	CanRun     bool               `json:"can_run"`
	CanApprove bool               `json:"can_approve"`
}

func (uc *UseCase) Automation(ctx context.Context, user *domain.User) (*AutomationView, error) {
	runbooks, err := uc.ops.Runbooks(ctx)
	if err != nil {
		return nil, err
	}
	executions, err := uc.ops.Executions(ctx)
	if err != nil {
		return nil, err
	}

	summary := AutomationSummary{Runbooks: len(runbooks), AutomationRate: dashboard.AutomationRate(runbooks)}
	for _, rb := range runbooks {
		if rb.Trigger == domain.TriggerAuto {
			summary.Automated++
		}
	}
	for _, ex := range executions {
		switch ex.Status {
		case domain.ExecutionRunning:
			summary.Running++
		case domain.ExecutionPendingApproval:
			summary.PendingApproval++
		case domain.ExecutionSuccess:
			summary.Succeeded++
		case domain.ExecutionFailed:
			summary.Failed++
		}
	}
	return &AutomationView{
		Runbooks:   runbooks,
		Executions: executions,
		Summary:    summary,
		CanRun:     user.Can(domain.PermRunAutomation),
		CanApprove: user.Can(domain.PermApproveAutomation),
	}, nil
}

type AnalyticsKPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta"`
	Trend string `json:"trend"`
}

var analyticsKPIs = []AnalyticsKPI{
	{Label: "Noise reduction", Value: "35%", Delta: "+4 pts", Trend: "up"},
	{Label: "Automation coverage", Value: "55%", Delta: "+6 pts", Trend: "up"},
	{Label: "Incident recurrence", Value: "-28%", Delta: "-4%", Trend: "down"},
	{Label: "Cost savings YTD", Value: "$740K", Delta: "+$120K", Trend: "up"},
}

type AnalyticsView struct {
	KPIs      []AnalyticsKPI      `json:"kpis"`
	Trend     []domain.TrendPoint `json:"trend"`
	CanExport bool                `json:"can_export"`
}

func (uc *UseCase) Analytics(ctx context.Context, user *domain.User) (*AnalyticsView, error) {
	trend, err := uc.ops.IncidentTrend(ctx)
	if err != nil {
		return nil, err
	}
	kpis := make([]AnalyticsKPI, len(analyticsKPIs))
	copy(kpis, analyticsKPIs)
	return &AnalyticsView{KPIs: kpis, Trend: trend, CanExport: user.Can(domain.PermExportAnalytics)}, nil
}

type ChatOpsView struct {
	Messages  []domain.ChatMessage    `json:"messages"`
	Similar   []domain.Incident       `json:"similar_incidents"`
	Knowledge []domain.KnowledgeEntry `json:"knowledge"`
	CanPost   bool                    `json:"can_post"`
}

const similarIncidents = 3

func (uc *UseCase) ChatOps(ctx context.Context, user *domain.User) (*ChatOpsView, error) {
	messages, err := uc.ops.ChatMessages(ctx)
	if err != nil {
		return nil, err
	}
	incidents, err := uc.ops.Incidents(ctx)
	if err != nil {
		return nil, err
	}
	knowledge, err := uc.ops.Knowledge(ctx)
	if err != nil {
		return nil, err
	}

	similar := make([]domain.Incident, 0, similarIncidents)
	for i := range incidents {
		if len(similar) == similarIncidents {
			break
		}
		if incidents[i].IsOpen() {
			similar = append(similar, incidents[i])
		}
	}
	return &ChatOpsView{
		Messages:  messages,
		Similar:   similar,
		Knowledge: knowledge,
		CanPost:   user.Can(domain.PermPostChatOps),
	}, nil
}

type TopologyView struct {
	Nodes       []domain.TopologyNode `json:"nodes"`
	Edges       []domain.TopologyEdge `json:"edges"`
	Services    []domain.Service      `json:"services"`
	ChangeRisks []domain.ChangeRisk   `json:"change_risks"`
}

func (uc *UseCase) Topology(ctx context.Context, _ *domain.User) (*TopologyView, error) {
	nodes, edges, err := uc.ops.Topology(ctx)
	if err != nil {
		return nil, err
	}
	services, err := uc.ops.Services(ctx)
	if err != nil {
		return nil, err
	}
	risks, err := uc.ops.ChangeRisks(ctx)
	if err != nil {
		return nil, err
	}
	return &TopologyView{Nodes: nodes, Edges: edges, Services: services, ChangeRisks: risks}, nil
}

type KnowledgeView struct {
	Entries   []domain.KnowledgeEntry `json:"entries"`
	Playbooks []domain.Playbook       `json:"playbooks"`
}

func (uc *UseCase) Knowledge(ctx context.Context, _ *domain.User) (*KnowledgeView, error) {
	entries, err := uc.ops.Knowledge(ctx)
	if err != nil {
		return nil, err
	}
	playbooks, err := uc.ops.Playbooks(ctx)
	if err != nil {
		return nil, err
	}
	return &KnowledgeView{Entries: entries, Playbooks: playbooks}, nil
}

type AgentsView struct {
	Agents  []domain.Agent `json:"agents"`
	Healthy int            `json:"healthy"`
}

func (uc *UseCase) Agents(ctx context.Context, _ *domain.User) (*AgentsView, error) {
	agents, err := uc.ops.Agents(ctx)
	if err != nil {
		return nil, err
	}
	healthy := 0
	for _, a := range agents {
		if a.Status == "healthy" {
			healthy++
		}
	}
	return &AgentsView{Agents: agents, Healthy: healthy}, nil
}

type AccountView struct {
	User        *domain.User        `json:"user"`
	Role        domain.Role         `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}

func (uc *UseCase) Account(_ context.Context, user *domain.User) (*AccountView, error) {
	if user == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return &AccountView{User: user, Role: user.Role, Permissions: domain.PermissionsOf(user.Role)}, nil
}

type UserManagementView struct {
	Users        []domain.User       `json:"users"`
	Audit        []domain.AuditEntry `json:"audit,omitempty"`
	CanViewAudit bool                `json:"can_view_audit"`
}

const auditPageSize = 50

func (uc *UseCase) UserManagement(ctx context.Context, user *domain.User) (*UserManagementView, error) {
	users, err := uc.credentials.List(ctx)
	if err != nil {
		return nil, err
	}
	view := &UserManagementView{Users: users, CanViewAudit: user.Can(domain.PermViewAudit)}
	if view.CanViewAudit {
		if view.Audit, err = uc.audit.List(ctx, repository.AuditFilter{Limit: auditPageSize}); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// ConnectorSync is the freshness of one upstream data connector.
type ConnectorSync struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Status string `json:"status"`
	Last   string `json:"last"`
}

type PhaseScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

var (
	connectorSyncs = []ConnectorSync{
		{ID: "metrics", Label: "Metrics ingest", Status: "green", Last: "1m ago"},
		{ID: "events", Label: "Event bus", Status: "green", Last: "Live"},
		{ID: "tickets", Label: "ServiceNow sync", Status: "amber", Last: "9m ago"},
	}
	rcaPhases = []PhaseScore{
		{Label: "Monitor", Score: 0.92},
		{Label: "Analyze", Score: 0.88},
		{Label: "Automate", Score: 0.81},
		{Label: "Optimize", Score: 0.76},
	}
)

type AdminView struct {
	Syncs     []ConnectorSync  `json:"syncs"`
	Phases    []PhaseScore     `json:"phases"`
	Services  []domain.Service `json:"services"`
	CanInject bool             `json:"can_inject"`
}

func (uc *UseCase) Admin(ctx context.Context, user *domain.User) (*AdminView, error) {
	services, err := uc.ops.Services(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminView{
		Syncs:     append([]ConnectorSync(nil), connectorSyncs...),
		Phases:    append([]PhaseScore(nil), rcaPhases...),
		Services:  services,
		CanInject: user.Can(domain.PermInjectSynthetic),
	}, nil
}

func hasService(services []domain.Service, id string) bool {
	for _, svc := range services {
		if svc.ID == id {
			return true
		}
	}
	return false
}
