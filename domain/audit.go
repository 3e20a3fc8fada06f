package domain

import "time"

const (
	AuditLogin       = "auth.login"
	AuditLoginFailed = "auth.login_failed"
	AuditLogout      = "auth.logout"
	AuditRunbookRun  = "automation.run"
	AuditInjectAnom  = "admin.inject_anomaly"
	AuditInjectIncid = "admin.inject_incident"
)

// AuditEntry records a security-relevant console action.
type AuditEntry struct {
	ID      string    `json:"id"`
	At      time.Time `json:"at"`
	Actor   string    `json:"actor"`
	Role    Role      `json:"role,omitempty"`
	Action  string    `json:"action"`
	Target  string    `json:"target,omitempty"`
	Outcome string    `json:"outcome"`
}

func (e *AuditEntry) Touch() {
	if e == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	if e.Outcome == "" {
		e.Outcome = "success"
	}
}
