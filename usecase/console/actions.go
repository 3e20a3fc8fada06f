package console

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/aiops/domain"
	appLogger "github.com/fastygo/aiops/pkg/logger"
	auditUC "github.com/fastygo/aiops/usecase/audit"
)

// RunRunbook starts an execution of runbookID on behalf of user.
func (uc *UseCase) RunRunbook(ctx context.Context, user *domain.User, runbookID, incidentID string) (*domain.Execution, error) {
	if err := uc.authorize(ctx, user, domain.PermRunAutomation, domain.AuditRunbookRun, runbookID); err != nil {
		return nil, err
	}
	execution := &domain.Execution{
		RunbookID:   runbookID,
		IncidentID:  incidentID,
		Status:      domain.ExecutionRunning,
		StartedAt:   uc.now(),
		TriggeredBy: user.Name,
	}
	err := uc.ops.StartExecution(ctx, execution)
	uc.audit.Record(ctx, user, domain.AuditRunbookRun, runbookID, auditUC.OutcomeOf(err))
	if err != nil {
		return nil, err
	}
	appLogger.WithContext(ctx, uc.logger).Info("runbook started",
		zap.String("runbook_id", runbookID),
		zap.String("execution_id", execution.ID),
		zap.String("user_id", user.ID))
	return execution, nil
}

// ExportAnalytics renders the analytics KPIs and the incident trend as CSV.
func (uc *UseCase) ExportAnalytics(ctx context.Context, user *domain.User) ([]byte, error) {
	if err := uc.authorize(ctx, user, domain.PermExportAnalytics, "", ""); err != nil {
		return nil, err
	}
	view, err := uc.Analytics(ctx, user)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{{"section", "label", "value", "delta"}}
	for _, kpi := range view.KPIs {
		rows = append(rows, []string{"kpi", kpi.Label, kpi.Value, kpi.Delta})
	}
	for _, point := range view.Trend {
		rows = append(rows,
			[]string{"incidents", point.Day, strconv.Itoa(point.Incidents), ""},
			[]string{"ai_closed", point.Day, strconv.Itoa(point.AIClosed), ""},
		)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const maxMessageLength = 2000

// PostMessage appends a ChatOps message authored by user.
func (uc *UseCase) PostMessage(ctx context.Context, user *domain.User, body string) (*domain.ChatMessage, error) {
	if err := uc.authorize(ctx, user, domain.PermPostChatOps, "", ""); err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" || len(body) > maxMessageLength {
		return nil, domain.ErrInvalidPayload
	}
	message := &domain.ChatMessage{
		Author: user.Name,
		Role:   user.Role.String(),
		Body:   body,
		SentAt: uc.now(),
	}
	if err := uc.ops.AddChatMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

type AnomalyInput struct {
	ServiceID  string          `json:"service_id"`
	Metric     string          `json:"metric"`
	Value      float64         `json:"value"`
	Baseline   float64         `json:"baseline"`
	Severity   domain.Severity `json:"severity"`
	Confidence float64         `json:"confidence"`
	Why        string          `json:"why"`
}

// DemoAnomaly is injected when the admin panel sends no payload.
func DemoAnomaly() AnomalyInput {
	return AnomalyInput{
		ServiceID:  "svc-payments",
		Metric:     "Queue depth",
		Value:      320,
		Baseline:   80,
		Severity:   domain.SeverityHigh,
		Confidence: 0.78,
		Why:        "Manual injection from admin panel.",
	}
}

func (in AnomalyInput) validate() error {
	if in.ServiceID == "" || strings.TrimSpace(in.Metric) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "service_id and metric are required")
	}
	if !in.Severity.Valid() {
		return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown severity %q", in.Severity))
	}
	if in.Confidence < 0 || in.Confidence > 1 {
		return domain.NewError(domain.ErrCodeInvalid, "confidence must be within [0, 1]")
	}
	return nil
}

func (uc *UseCase) InjectAnomaly(ctx context.Context, user *domain.User, in AnomalyInput) (*domain.Anomaly, error) {
	if err := uc.authorize(ctx, user, domain.PermInjectSynthetic, domain.AuditInjectAnom, in.ServiceID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	anomaly := &domain.Anomaly{
		ServiceID:  in.ServiceID,
		Metric:     strings.TrimSpace(in.Metric),
		Value:      in.Value,
		Baseline:   in.Baseline,
		Severity:   in.Severity,
		Confidence: in.Confidence,
		DetectedAt: uc.now(),
		Why:        in.Why,
	}
	err := uc.ops.InjectAnomaly(ctx, anomaly)
	uc.audit.Record(ctx, user, domain.AuditInjectAnom, in.ServiceID, auditUC.OutcomeOf(err))
	if err != nil {
		return nil, err
	}
	return anomaly, nil
}

type IncidentInput struct {
	ServiceID string          `json:"service_id"`
	Title     string          `json:"title"`
	Severity  domain.Severity `json:"severity"`
}

// DemoIncident is injected when the admin panel sends no payload.
func DemoIncident() IncidentInput {
	return IncidentInput{
		ServiceID: "svc-payments",
		Title:     "Demo incident from Admin panel",
		Severity:  domain.SeverityMedium,
	}
}

func (uc *UseCase) InjectIncident(ctx context.Context, user *domain.User, in IncidentInput) (*domain.Incident, error) {
	if err := uc.authorize(ctx, user, domain.PermInjectSynthetic, domain.AuditInjectIncid, in.ServiceID); err != nil {
		return nil, err
	}
	if in.ServiceID == "" || strings.TrimSpace(in.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "service_id and title are required")
	}
	if !in.Severity.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown severity %q", in.Severity))
	}

	incident := &domain.Incident{
		ServiceID:     in.ServiceID,
		Title:         strings.TrimSpace(in.Title),
		Severity:      in.Severity,
		Status:        domain.IncidentOpen,
		DetectedAt:    uc.now(),
		RootCause:     "Synthetic",
		Confidence:    0.4,
		ImpactedUsers: 120,
	}
	err := uc.ops.AddIncident(ctx, incident)
	target := incident.ID
	if target == "" {
		target = in.ServiceID
	}
	uc.audit.Record(ctx, user, domain.AuditInjectIncid, target, auditUC.OutcomeOf(err))
	if err != nil {
		return nil, err
	}
	return incident, nil
}
