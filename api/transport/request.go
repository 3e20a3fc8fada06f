package transport

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RunRunbookRequest struct {
	IncidentID string `json:"incident_id"`
}

type ChatMessageRequest struct {
	Body string `json:"body"`
}

// SessionResponse describes the caller's session state.
type SessionResponse struct {
	State       string      `json:"state"`
	Decision    string      `json:"decision"`
	User        interface{} `json:"user,omitempty"`
	Permissions interface{} `json:"permissions"`
}
