package repository

import (
	"context"

	"github.com/fastygo/aiops/domain"
)

// OpsRepository is the read-mostly store backing the console views.
type OpsRepository interface {
	Services(ctx context.Context) ([]domain.Service, error)
	Incidents(ctx context.Context) ([]domain.Incident, error)
	Anomalies(ctx context.Context, serviceID string) ([]domain.Anomaly, error)
	Runbooks(ctx context.Context) ([]domain.Runbook, error)
	Executions(ctx context.Context) ([]domain.Execution, error)
	Insights(ctx context.Context) ([]domain.Insight, error)
	Knowledge(ctx context.Context) ([]domain.KnowledgeEntry, error)
	Playbooks(ctx context.Context) ([]domain.Playbook, error)
	Topology(ctx context.Context) ([]domain.TopologyNode, []domain.TopologyEdge, error)
	ChangeRisks(ctx context.Context) ([]domain.ChangeRisk, error)
	Timeline(ctx context.Context) ([]domain.TimelineEvent, error)
	ChatMessages(ctx context.Context) ([]domain.ChatMessage, error)
	IncidentTrend(ctx context.Context) ([]domain.TrendPoint, error)
	Agents(ctx context.Context) ([]domain.Agent, error)

	AddIncident(ctx context.Context, incident *domain.Incident) error
	InjectAnomaly(ctx context.Context, anomaly *domain.Anomaly) error
	AddChatMessage(ctx context.Context, message *domain.ChatMessage) error
	StartExecution(ctx context.Context, execution *domain.Execution) error
}
