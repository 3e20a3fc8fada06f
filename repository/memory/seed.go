package memory

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/fastygo/aiops/domain"
)

func seedStore(s *OpsStore, seed uint64, now time.Time) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	now = now.UTC()

	jitter := func(base, spread float64) float64 {
		return round2(base + (rng.Float64()*2-1)*spread)
	}
	ago := func(maxMinutes int) time.Time {
		return now.Add(-time.Duration(rng.IntN(maxMinutes)+1) * time.Minute)
	}

	s.services = []domain.Service{
		{ID: "svc-payments", Name: "Payments", Tier: "tier-1"},
		{ID: "svc-checkout", Name: "Checkout", Tier: "tier-1"},
		{ID: "svc-identity", Name: "Identity", Tier: "tier-1"},
		{ID: "svc-search", Name: "Search", Tier: "tier-2"},
		{ID: "svc-inventory", Name: "Inventory", Tier: "tier-2"},
		{ID: "svc-notifications", Name: "Notifications", Tier: "tier-3"},
	}
	for i := range s.services {
		score := jitter(0.9, 0.09)
		s.services[i].Score = score
		s.services[i].Latency = 80 + rng.IntN(240)
		s.services[i].ErrorRate = round2(rng.Float64() * 2)
		s.services[i].Health = healthFor(score)
	}

	s.incidents = []domain.Incident{
		{ID: "INC-1042", ServiceID: "svc-payments", Title: "Payment authorisation latency above SLO", Severity: domain.SeverityCritical, Status: domain.IncidentInvestigating, RootCause: "Connection pool exhaustion on card gateway", Category: "performance"},
		{ID: "INC-1041", ServiceID: "svc-checkout", Title: "Checkout 5xx spike after deploy", Severity: domain.SeverityHigh, Status: domain.IncidentMitigated, RootCause: "Config drift in feature flag", Category: "deployment"},
		{ID: "INC-1040", ServiceID: "svc-identity", Title: "Token refresh failures for mobile clients", Severity: domain.SeverityHigh, Status: domain.IncidentOpen, RootCause: "Clock skew on auth nodes", Category: "availability"},
		{ID: "INC-1039", ServiceID: "svc-search", Title: "Search index lag", Severity: domain.SeverityMedium, Status: domain.IncidentResolved, RootCause: "Backpressure in indexing workers", Category: "performance"},
		{ID: "INC-1038", ServiceID: "svc-notifications", Title: "Email bounce rate elevated", Severity: domain.SeverityLow, Status: domain.IncidentResolved, RootCause: "Provider throttling", Category: "third-party"},
		{ID: "INC-1037", ServiceID: "svc-inventory", Title: "Stock sync job overran window", Severity: domain.SeverityMedium, Status: domain.IncidentOpen, RootCause: "Unbounded batch size", Category: "capacity"},
	}
	for i := range s.incidents {
		s.incidents[i].DetectedAt = ago(60 * 24)
		s.incidents[i].Confidence = jitter(0.75, 0.2)
		s.incidents[i].ImpactedUsers = 100 + rng.IntN(9000)
	}

	metrics := []struct {
		service, metric string
		baseline        float64
	}{
		{"svc-payments", "p95 latency (ms)", 180},
		{"svc-payments", "Queue depth", 80},
		{"svc-checkout", "HTTP 5xx rate (%)", 0.4},
		{"svc-identity", "Token errors/min", 12},
		{"svc-search", "Index lag (s)", 30},
		{"svc-inventory", "Sync duration (min)", 15},
		{"svc-notifications", "Bounce rate (%)", 1.5},
		{"svc-checkout", "Cart abandon rate (%)", 22},
	}
	severities := []domain.Severity{domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow}
	for i, m := range metrics {
		factor := 1.3 + rng.Float64()*2
		s.anomalies = append(s.anomalies, domain.Anomaly{
			ID:         fmt.Sprintf("ANM-%03d", i+1),
			ServiceID:  m.service,
			Metric:     m.metric,
			Value:      round2(m.baseline * factor),
			Baseline:   m.baseline,
			Severity:   severities[rng.IntN(len(severities))],
			Confidence: jitter(0.8, 0.15),
			DetectedAt: ago(6 * 60),
			Why:        "Deviation exceeds seasonal band",
		})
	}

	s.runbooks = []domain.Runbook{
		{ID: "rb-restart-pool", Name: "Recycle connection pool", Description: "Drain and recycle gateway connections", Trigger: domain.TriggerAuto, Owner: "payments-sre"},
		{ID: "rb-rollback", Name: "Roll back last deploy", Description: "Revert to the previous release", Trigger: domain.TriggerManual, Owner: "platform"},
		{ID: "rb-scale-out", Name: "Scale out workers", Description: "Add capacity to the worker pool", Trigger: domain.TriggerAuto, Owner: "platform"},
		{ID: "rb-clear-cache", Name: "Flush edge cache", Description: "Purge stale edge entries", Trigger: domain.TriggerAuto, Owner: "web"},
		{ID: "rb-failover", Name: "Fail over region", Description: "Shift traffic to the standby region", Trigger: domain.TriggerManual, Owner: "sre"},
	}
	for i := range s.runbooks {
		s.runbooks[i].SuccessRate = jitter(0.9, 0.08)
	}

	statuses := []domain.ExecutionStatus{
		domain.ExecutionSuccess, domain.ExecutionSuccess, domain.ExecutionPendingApproval,
		domain.ExecutionFailed, domain.ExecutionSuccess, domain.ExecutionRunning,
	}
	for i, status := range statuses {
		rb := s.runbooks[i%len(s.runbooks)]
		s.executions = append(s.executions, domain.Execution{
			ID:          fmt.Sprintf("EXE-%03d", i+1),
			RunbookID:   rb.ID,
			IncidentID:  s.incidents[i%len(s.incidents)].ID,
			Status:      status,
			StartedAt:   ago(36 * 60),
			TriggeredBy: "ai-agent",
		})
	}

	s.insights = []domain.Insight{
		{ID: "ins-1", Title: "Pool saturation precedes payment latency", Summary: "Gateway pool reaches 95% utilisation roughly 8 minutes before latency breaches.", Confidence: jitter(0.85, 0.05), Action: "Enable auto-recycle runbook"},
		{ID: "ins-2", Title: "Deploys on Fridays carry higher risk", Summary: "Change failure rate is twice the weekly average for Friday releases.", Confidence: jitter(0.7, 0.1)},
		{ID: "ins-3", Title: "Notification noise can be suppressed", Summary: "Most bounce alerts self-resolve within 20 minutes.", Confidence: jitter(0.8, 0.1), Action: "Raise alert threshold"},
	}

	s.knowledge = []domain.KnowledgeEntry{
		{ID: "kb-1", Title: "Gateway pool exhaustion", Summary: "Symptoms and remediation for card gateway saturation.", Takeaways: []string{"Check pool metrics first", "Recycle before scaling"}},
		{ID: "kb-2", Title: "Safe rollbacks", Summary: "How to revert a release without data loss.", Takeaways: []string{"Freeze migrations", "Roll back behind a flag"}},
		{ID: "kb-3", Title: "Token refresh storms", Summary: "Mitigating mass refresh after auth incidents.", Takeaways: []string{"Add jitter to clients", "Extend grace windows"}},
	}
	s.playbooks = []domain.Playbook{
		{ID: "pb-latency", Name: "Latency triage", Steps: []string{"Confirm SLO breach", "Correlate with deploys", "Inspect saturation", "Apply runbook"}},
		{ID: "pb-deploy", Name: "Bad deploy", Steps: []string{"Halt rollout", "Compare error budgets", "Roll back", "Open postmortem"}},
	}

	for _, svc := range s.services {
		s.nodes = append(s.nodes, domain.TopologyNode{ID: "node-" + svc.ID, Label: svc.Name, Kind: "service", ServiceID: svc.ID, Health: svc.Health})
	}
	s.nodes = append(s.nodes,
		domain.TopologyNode{ID: "node-db", Label: "Orders DB", Kind: "database", Health: "healthy"},
		domain.TopologyNode{ID: "node-queue", Label: "Event bus", Kind: "queue", Health: "healthy"},
	)
	s.edges = []domain.TopologyEdge{
		{From: "node-svc-checkout", To: "node-svc-payments"},
		{From: "node-svc-checkout", To: "node-svc-inventory"},
		{From: "node-svc-checkout", To: "node-svc-identity"},
		{From: "node-svc-payments", To: "node-db"},
		{From: "node-svc-inventory", To: "node-db"},
		{From: "node-svc-payments", To: "node-queue"},
		{From: "node-queue", To: "node-svc-notifications"},
		{From: "node-svc-search", To: "node-svc-inventory"},
	}

	owners := []string{"j.doe", "a.khan", "m.rossi"}
	for i, svc := range s.services[:4] {
		s.changeRisks = append(s.changeRisks, domain.ChangeRisk{
			ID:         fmt.Sprintf("CHG-%03d", 200+i),
			ServiceID:  svc.ID,
			Title:      svc.Name + " release",
			RiskScore:  round2(rng.Float64()),
			Owner:      owners[i%len(owners)],
			DeployedAt: ago(3 * 24 * 60),
		})
	}

	s.timeline = []domain.TimelineEvent{
		{ID: "evt-1", At: ago(30), Kind: "alert", Message: "Latency SLO burn rate 4x", ServiceID: "svc-payments"},
		{ID: "evt-2", At: ago(90), Kind: "deploy", Message: "checkout v2.14.0 rolled out", ServiceID: "svc-checkout"},
		{ID: "evt-3", At: ago(180), Kind: "automation", Message: "Recycle connection pool succeeded", ServiceID: "svc-payments"},
	}

	s.chat = []domain.ChatMessage{
		{ID: "msg-1", Author: "AIOps Agent", Role: "agent", Body: "INC-1042 correlated with gateway pool saturation.", SentAt: ago(25)},
		{ID: "msg-2", Author: "Omar Siddiqui", Role: string(domain.RoleOperator), Body: "Approving pool recycle.", SentAt: ago(20)},
	}

	for day := 13; day >= 0; day-- {
		incidents := 6 + rng.IntN(10)
		s.trend = append(s.trend, domain.TrendPoint{
			Day:       now.AddDate(0, 0, -day).Format("2006-01-02"),
			Incidents: incidents,
			AIClosed:  rng.IntN(incidents + 1),
		})
	}

	s.agents = []domain.Agent{
		{Name: "Agent Alpha", Zone: "US-West", Version: "v4.3.1", Status: "healthy"},
		{Name: "Agent Delta", Zone: "US-East", Version: "v4.3.1", Status: "healthy"},
		{Name: "Agent Echo", Zone: "AP-South", Version: "v4.2.0", Status: "warning"},
		{Name: "Agent Foxtrot", Zone: "EU-Central", Version: "v4.3.1", Status: "healthy"},
	}
}

func healthFor(score float64) string {
	switch {
	case score >= 0.9:
		return "healthy"
	case score >= 0.85:
		return "degraded"
	default:
		return "critical"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
