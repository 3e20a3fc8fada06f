package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository/memory"
)

type stubFeed struct {
	feed  *domain.IncidentFeed
	err   error
	calls int
}

func (s *stubFeed) Fetch(context.Context) (*domain.IncidentFeed, error) {
	s.calls++
	return s.feed, s.err
}

func newStore() *memory.OpsStore {
	return memory.NewOpsStore(42, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
}

func TestBuild_UsesFeedWhenAvailable(t *testing.T) {
	feed := &stubFeed{feed: &domain.IncidentFeed{
		TotalIncidents: 30,
		ActiveCount:    9,
		IncidentTypes:  []domain.IncidentTypeCount{{Type: "network", Count: 30}},
		Incidents:      make([]domain.FeedIncident, 25),
	}}
	view, err := New(newStore(), feed, nil).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, feed.calls)
	assert.Equal(t, SourceFeed, view.Source)
	assert.Empty(t, view.Error)
	assert.Equal(t, 9, view.Metrics.ActiveIncidents)
	assert.Equal(t, "9", view.KPIs[0].Value)
	assert.Equal(t, 30, view.TotalFeed)
	assert.Len(t, view.FeedIncidents, feedIncidents)
	assert.Len(t, view.Anomalies, topAnomalies)
	assert.NotEmpty(t, view.Services)
	assert.NotEmpty(t, view.Insights)
	assert.Len(t, view.Trend, 14)
}

func TestBuild_FallsBackOnServerError(t *testing.T) {
	store := newStore()
	feed := &stubFeed{err: &domain.FetchError{StatusCode: 500}}

	view, err := New(store, feed, nil).Build(context.Background())
	require.NoError(t, err)

	incidents, _ := store.Incidents(context.Background())
	runbooks, _ := store.Runbooks(context.Background())
	want := LocalMetrics(incidents, runbooks)

	assert.Equal(t, SourceMock, view.Source)
	assert.Equal(t, "incidents request failed with status 500", view.Error)
	assert.Equal(t, want, view.Metrics)
	assert.Equal(t, "4", view.KPIs[0].Value)
	assert.Equal(t, "60%", view.KPIs[2].Value)
	assert.Empty(t, view.IncidentTypes)
	assert.NotEmpty(t, view.Services)
}

func TestBuild_WrapsForeignErrors(t *testing.T) {
	feed := &stubFeed{err: errors.New("dial tcp: refused")}

	view, err := New(newStore(), feed, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "incidents request failed: dial tcp: refused", view.Error)
}

func TestBuild_WithoutFeed(t *testing.T) {
	view, err := New(newStore(), nil, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceMock, view.Source)
	assert.Empty(t, view.Error)
}

func TestLocalMetrics(t *testing.T) {
	incidents := []domain.Incident{
		{Status: domain.IncidentOpen},
		{Status: domain.IncidentInvestigating},
		{Status: domain.IncidentResolved},
	}
	runbooks := []domain.Runbook{
		{Trigger: domain.TriggerAuto},
		{Trigger: domain.TriggerAuto},
		{Trigger: domain.TriggerManual},
	}

	m := LocalMetrics(incidents, runbooks)
	assert.Equal(t, 2, m.ActiveIncidents)
	assert.Equal(t, "67%", m.AutomationRate)
	assert.Equal(t, "49m", m.MTTR)
	assert.Equal(t, "$1.26M", m.Savings)

	assert.Equal(t, "0%", AutomationRate(nil))
}
