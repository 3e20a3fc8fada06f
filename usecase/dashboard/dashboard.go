package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
)

const (
	SourceFeed = "feed"
	SourceMock = "mock"

	mockMTTR    = "49m"
	mockSavings = "$1.26M"

	topAnomalies  = 4
	feedIncidents = 10
)

// FeedFetcher is the incidents service as seen by the dashboard.
type FeedFetcher interface {
	Fetch(ctx context.Context) (*domain.IncidentFeed, error)
}

type KPI struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Delta   string `json:"delta,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Metrics are the four headline numbers behind the KPI cards.
type Metrics struct {
	ActiveIncidents int    `json:"active_incidents"`
	MTTR            string `json:"mttr"`
	AutomationRate  string `json:"automation_rate"`
	Savings         string `json:"savings"`
}

type View struct {
	Source        string                     `json:"source"`
	Error         string                     `json:"error,omitempty"`
	Metrics       Metrics                    `json:"metrics"`
	KPIs          []KPI                      `json:"kpis"`
	TotalFeed     int                        `json:"total_incidents,omitempty"`
	IncidentTypes []domain.IncidentTypeCount `json:"incident_types,omitempty"`
	FeedIncidents []domain.FeedIncident      `json:"feed_incidents,omitempty"`
	Trend         []domain.TrendPoint        `json:"trend"`
	Insights      []domain.Insight           `json:"insights"`
	Services      []domain.Service           `json:"services"`
	Anomalies     []domain.Anomaly           `json:"anomalies"`
}

type UseCase struct {
	ops    repository.OpsRepository
	feed   FeedFetcher
	logger *zap.Logger
}

func New(ops repository.OpsRepository, feed FeedFetcher, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{ops: ops, feed: feed, logger: logger}
}

// Build assembles the dashboard. A failed feed call is reported in View.Error
// and the KPIs fall back to mock-store metrics; it never fails the view.
func (uc *UseCase) Build(ctx context.Context) (*View, error) {
	incidents, err := uc.ops.Incidents(ctx)
	if err != nil {
		return nil, err
	}
	runbooks, err := uc.ops.Runbooks(ctx)
	if err != nil {
		return nil, err
	}

	view := &View{
		Source:  SourceMock,
		Metrics: LocalMetrics(incidents, runbooks),
	}

	if uc.feed != nil {
		feed, err := uc.feed.Fetch(ctx)
		switch {
		case err == nil:
			view.Source = SourceFeed
			view.Metrics.ActiveIncidents = feed.ActiveCount
			view.TotalFeed = feed.TotalIncidents
			view.IncidentTypes = feed.IncidentTypes
			view.FeedIncidents = feed.Incidents
			if len(view.FeedIncidents) > feedIncidents {
				view.FeedIncidents = view.FeedIncidents[:feedIncidents]
			}
		default:
			var fetchErr *domain.FetchError
			if !errors.As(err, &fetchErr) {
				fetchErr = &domain.FetchError{Err: err}
			}
			uc.logger.Warn("dashboard using local metrics", zap.Error(fetchErr))
			view.Error = fetchErr.Error()
		}
	}
	view.KPIs = kpis(view.Metrics)

	if view.Trend, err = uc.ops.IncidentTrend(ctx); err != nil {
		return nil, err
	}
	if view.Insights, err = uc.ops.Insights(ctx); err != nil {
		return nil, err
	}
	if view.Services, err = uc.ops.Services(ctx); err != nil {
		return nil, err
	}
	anomalies, err := uc.ops.Anomalies(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(anomalies) > topAnomalies {
		anomalies = anomalies[:topAnomalies]
	}
	view.Anomalies = anomalies

	return view, nil
}

// LocalMetrics computes the headline numbers from the mock store alone.
func LocalMetrics(incidents []domain.Incident, runbooks []domain.Runbook) Metrics {
	open := 0
	for i := range incidents {
		if incidents[i].IsOpen() {
			open++
		}
	}
	return Metrics{
		ActiveIncidents: open,
		MTTR:            mockMTTR,
		AutomationRate:  AutomationRate(runbooks),
		Savings:         mockSavings,
	}
}

// AutomationRate is the share of runbooks triggered automatically, as a percentage.
func AutomationRate(runbooks []domain.Runbook) string {
	if len(runbooks) == 0 {
		return "0%"
	}
	auto := 0
	for _, rb := range runbooks {
		if rb.Trigger == domain.TriggerAuto {
			auto++
		}
	}
	rate := math.Round(float64(auto) / float64(len(runbooks)) * 100)
	return fmt.Sprintf("%d%%", int(rate))
}

func kpis(m Metrics) []KPI {
	return []KPI{
		{Label: "Active incidents", Value: strconv.Itoa(m.ActiveIncidents), Delta: "-18% vs last week", Caption: "Sev-1 automation closed 3 in the past day"},
		{Label: "MTTR", Value: m.MTTR, Delta: "11m faster", Caption: "AI Agents recommended 4 mitigations"},
		{Label: "Automation rate", Value: m.AutomationRate, Delta: "+6 pts", Caption: "Runbooks executed automatically"},
		{Label: "Cost savings", Value: m.Savings, Delta: "+$140K this quarter", Caption: "Noise reduction & toil avoidance"},
	}
}
