package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
)

// OpsStore is the in-memory collection set behind every console view.
// Readers get copies; the few mutations take the write lock.
type OpsStore struct {
	mu sync.RWMutex

	services    []domain.Service
	incidents   []domain.Incident
	anomalies   []domain.Anomaly
	runbooks    []domain.Runbook
	executions  []domain.Execution
	insights    []domain.Insight
	knowledge   []domain.KnowledgeEntry
	playbooks   []domain.Playbook
	nodes       []domain.TopologyNode
	edges       []domain.TopologyEdge
	changeRisks []domain.ChangeRisk
	timeline    []domain.TimelineEvent
	chat        []domain.ChatMessage
	trend       []domain.TrendPoint
	agents      []domain.Agent
}

var _ repository.OpsRepository = (*OpsStore)(nil)

// NewOpsStore builds a store seeded from seed. Equal seeds give equal data
// relative to now.
func NewOpsStore(seed uint64, now time.Time) *OpsStore {
	s := &OpsStore{}
	seedStore(s, seed, now)
	return s
}

func (s *OpsStore) Services(_ context.Context) ([]domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.services), nil
}

func (s *OpsStore) Incidents(_ context.Context) ([]domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.incidents), nil
}

// Anomalies returns anomalies newest first, optionally restricted to one service.
func (s *OpsStore) Anomalies(_ context.Context, serviceID string) ([]domain.Anomaly, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Anomaly, 0, len(s.anomalies))
	for _, a := range s.anomalies {
		if serviceID != "" && a.ServiceID != serviceID {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DetectedAt.After(out[j].DetectedAt) })
	return out, nil
}

func (s *OpsStore) Runbooks(_ context.Context) ([]domain.Runbook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.runbooks), nil
}

func (s *OpsStore) Executions(_ context.Context) ([]domain.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.executions), nil
}

func (s *OpsStore) Insights(_ context.Context) ([]domain.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.insights), nil
}

func (s *OpsStore) Knowledge(_ context.Context) ([]domain.KnowledgeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.knowledge), nil
}

func (s *OpsStore) Playbooks(_ context.Context) ([]domain.Playbook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.playbooks), nil
}

func (s *OpsStore) Topology(_ context.Context) ([]domain.TopologyNode, []domain.TopologyEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.nodes), cloneSlice(s.edges), nil
}

func (s *OpsStore) ChangeRisks(_ context.Context) ([]domain.ChangeRisk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.changeRisks), nil
}

func (s *OpsStore) Timeline(_ context.Context) ([]domain.TimelineEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.timeline), nil
}

func (s *OpsStore) ChatMessages(_ context.Context) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.chat), nil
}

func (s *OpsStore) IncidentTrend(_ context.Context) ([]domain.TrendPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.trend), nil
}

func (s *OpsStore) Agents(_ context.Context) ([]domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.agents), nil
}

// AddIncident prepends incident to the queue. An empty ID is filled with the
// next DEMO-n sequence number; a taken ID is a conflict.
func (s *OpsStore) AddIncident(_ context.Context, incident *domain.Incident) error {
	if incident == nil || incident.Title == "" || !incident.Severity.Valid() {
		return domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasService(incident.ServiceID) {
		return domain.ErrServiceNotFound
	}
	if incident.ID == "" {
		incident.ID = s.nextIncidentID()
	}
	for i := range s.incidents {
		if s.incidents[i].ID == incident.ID {
			return domain.NewError(domain.ErrCodeConflict, "incident "+incident.ID+" already exists")
		}
	}
	if incident.Status == "" {
		incident.Status = domain.IncidentOpen
	}
	if incident.DetectedAt.IsZero() {
		incident.DetectedAt = time.Now().UTC()
	}
	s.incidents = append([]domain.Incident{*incident}, s.incidents...)
	return nil
}

// InjectAnomaly records a synthetic anomaly and adds it to the timeline.
func (s *OpsStore) InjectAnomaly(_ context.Context, anomaly *domain.Anomaly) error {
	if anomaly == nil || anomaly.Metric == "" || !anomaly.Severity.Valid() {
		return domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasService(anomaly.ServiceID) {
		return domain.ErrServiceNotFound
	}
	if anomaly.ID == "" {
		anomaly.ID = uuid.NewString()
	}
	if anomaly.DetectedAt.IsZero() {
		anomaly.DetectedAt = time.Now().UTC()
	}
	s.anomalies = append([]domain.Anomaly{*anomaly}, s.anomalies...)
	s.timeline = append([]domain.TimelineEvent{{
		ID:        uuid.NewString(),
		At:        anomaly.DetectedAt,
		Kind:      "anomaly",
		Message:   anomaly.Metric + " deviated from baseline",
		ServiceID: anomaly.ServiceID,
	}}, s.timeline...)
	return nil
}

func (s *OpsStore) AddChatMessage(_ context.Context, message *domain.ChatMessage) error {
	if message == nil || message.Body == "" {
		return domain.ErrInvalidPayload
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, *message)
	return nil
}

// StartExecution records a run of an existing runbook.
func (s *OpsStore) StartExecution(_ context.Context, execution *domain.Execution) error {
	if execution == nil {
		return domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for _, rb := range s.runbooks {
		if rb.ID == execution.RunbookID {
			found = true
			break
		}
	}
	if !found {
		return domain.ErrRunbookNotFound
	}
	if execution.ID == "" {
		execution.ID = uuid.NewString()
	}
	if execution.Status == "" {
		execution.Status = domain.ExecutionRunning
	}
	if execution.StartedAt.IsZero() {
		execution.StartedAt = time.Now().UTC()
	}
	s.executions = append([]domain.Execution{*execution}, s.executions...)
	return nil
}

// nextIncidentID must be called with s.mu held.
func (s *OpsStore) nextIncidentID() string {
	for n := len(s.incidents) + 1; ; n++ {
		id := fmt.Sprintf("DEMO-%d", n)
		taken := false
		for i := range s.incidents {
			if s.incidents[i].ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}

func (s *OpsStore) hasService(id string) bool {
	for _, svc := range s.services {
		if svc.ID == id {
			return true
		}
	}
	return false
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
