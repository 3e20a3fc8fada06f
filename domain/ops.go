package domain

import "time"

type Service struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Tier      string  `json:"tier"`
	Health    string  `json:"health"`
	Score     float64 `json:"score"`
	Latency   int     `json:"latency_ms"`
	ErrorRate float64 `json:"error_rate"`
}

type Anomaly struct {
	ID         string    `json:"id"`
	ServiceID  string    `json:"service_id"`
	Metric     string    `json:"metric"`
	Value      float64   `json:"value"`
	Baseline   float64   `json:"baseline"`
	Severity   Severity  `json:"severity"`
	Confidence float64   `json:"confidence"`
	DetectedAt time.Time `json:"detected_at"`
	Why        string    `json:"why,omitempty"`
}

type RunbookTrigger string

const (
	TriggerAuto   RunbookTrigger = "auto"
	TriggerManual RunbookTrigger = "manual"
)

type Runbook struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Trigger     RunbookTrigger `json:"trigger"`
	Owner       string         `json:"owner"`
	SuccessRate float64        `json:"success_rate"`
}

type ExecutionStatus string

const (
	ExecutionRunning         ExecutionStatus = "running"
	ExecutionSuccess         ExecutionStatus = "success"
	ExecutionFailed          ExecutionStatus = "failed"
	ExecutionPendingApproval ExecutionStatus = "pending-approval"
)

type Execution struct {
	ID          string          `json:"id"`
	RunbookID   string          `json:"runbook_id"`
	IncidentID  string          `json:"incident_id,omitempty"`
	Status      ExecutionStatus `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	TriggeredBy string          `json:"triggered_by"`
}

type Insight struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
	Action     string  `json:"action,omitempty"`
}

type KnowledgeEntry struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Takeaways []string `json:"takeaways"`
}

type Playbook struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

type TopologyNode struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Kind      string `json:"kind"`
	ServiceID string `json:"service_id,omitempty"`
	Health    string `json:"health"`
}

type TopologyEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ChangeRisk struct {
	ID         string    `json:"id"`
	ServiceID  string    `json:"service_id"`
	Title      string    `json:"title"`
	RiskScore  float64   `json:"risk_score"`
	Owner      string    `json:"owner"`
	DeployedAt time.Time `json:"deployed_at"`
}

type TimelineEvent struct {
	ID        string    `json:"id"`
	At        time.Time `json:"at"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	ServiceID string    `json:"service_id,omitempty"`
}

type ChatMessage struct {
	ID     string    `json:"id"`
	Author string    `json:"author"`
	Role   string    `json:"role"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

type TrendPoint struct {
	Day       string `json:"day"`
	Incidents int    `json:"incidents"`
	AIClosed  int    `json:"ai_closed"`
}

type Agent struct {
	Name    string `json:"name"`
	Zone    string `json:"zone"`
	Version string `json:"version"`
	Status  string `json:"status"`
}
