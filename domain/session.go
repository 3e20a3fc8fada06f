package domain

// SessionState is the lifecycle position of a console session.
type SessionState string

const (
	SessionUnhydrated SessionState = "unhydrated"
	SessionNoUser     SessionState = "no_user"
	SessionWithUser   SessionState = "with_user"
)

// Session is a snapshot of a session store.
type Session struct {
	ID       string `json:"id"`
	Hydrated bool   `json:"hydrated"`
	User     *User  `json:"user,omitempty"`
}

// State derives the lifecycle state from the snapshot.
func (s *Session) State() SessionState {
	switch {
	case s == nil || !s.Hydrated:
		return SessionUnhydrated
	case s.User == nil:
		return SessionNoUser
	default:
		return SessionWithUser
	}
}
