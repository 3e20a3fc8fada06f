package domain

import (
	"encoding/json"
	"time"
)

// Severity is the closed set of incident and anomaly severities.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

type IncidentStatus string

const (
	IncidentOpen          IncidentStatus = "open"
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentMitigated     IncidentStatus = "mitigated"
	IncidentResolved      IncidentStatus = "resolved"
)

// Incident is a console-side incident record held by the mock store.
type Incident struct {
	ID            string         `json:"id"`
	ServiceID     string         `json:"service_id"`
	Title         string         `json:"title"`
	Severity      Severity       `json:"severity"`
	Status        IncidentStatus `json:"status"`
	DetectedAt    time.Time      `json:"detected_at"`
	RootCause     string         `json:"root_cause,omitempty"`
	Confidence    float64        `json:"confidence"`
	ImpactedUsers int            `json:"impacted_users"`
	Category      string         `json:"category,omitempty"`
}

func (i *Incident) IsOpen() bool {
	return i != nil && i.Status != IncidentResolved
}

// IncidentFeed is the payload returned by the incidents service.
type IncidentFeed struct {
	TotalIncidents int                 `json:"totalIncidents"`
	ActiveCount    int                 `json:"activeCount"`
	IncidentTypes  []IncidentTypeCount `json:"incidentTypes"`
	Incidents      []FeedIncident      `json:"incidents"`
}

type IncidentTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// FeedIncident mirrors a ticket row from the incidents service. Every field is
// optional upstream; fields this service does not model are kept in Extra.
type FeedIncident struct {
	SysID            string `json:"sys_id,omitempty"`
	Number           string `json:"number,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
	ClosedAt         string `json:"closed_at,omitempty"`
	CloseNotes       string `json:"close_notes,omitempty"`
	Notify           string `json:"notify,omitempty"`
	Category         string `json:"category,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var feedIncidentKeys = map[string]struct{}{
	"sys_id": {}, "number": {}, "short_description": {}, "closed_at": {},
	"close_notes": {}, "notify": {}, "category": {},
}

func (f *FeedIncident) UnmarshalJSON(data []byte) error {
	type plain FeedIncident
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = FeedIncident(known)
	for key, value := range raw {
		if _, ok := feedIncidentKeys[key]; ok {
			continue
		}
		if f.Extra == nil {
			f.Extra = make(map[string]json.RawMessage)
		}
		f.Extra[key] = value
	}
	return nil
}

func (f FeedIncident) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(f.Extra)+7)
	for key, value := range f.Extra {
		out[key] = value
	}
	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	set("sys_id", f.SysID)
	set("number", f.Number)
	set("short_description", f.ShortDescription)
	set("closed_at", f.ClosedAt)
	set("close_notes", f.CloseNotes)
	set("notify", f.Notify)
	set("category", f.Category)
	return json.Marshal(out)
}
