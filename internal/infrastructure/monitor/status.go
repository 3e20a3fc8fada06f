package monitor

import "time"

type State string

const (
	StateUp       State = "up"
	StateDown     State = "down"
	StateDisabled State = "disabled"
)

type Status struct {
	PostgreSQL State     `json:"postgresql"`
	Redis      State     `json:"redis"`
	Spool      State     `json:"spool"`
	SpoolSize  int       `json:"spool_size"`
	Incidents  State     `json:"incidents_feed"`
	LastCheck  time.Time `json:"last_check"`
}

// Degraded reports whether a configured storage backend is down. The
// incidents feed is excluded since the dashboard falls back without it.
func (s Status) Degraded() bool {
	for _, st := range []State{s.PostgreSQL, s.Redis, s.Spool} {
		if st == StateDown {
			return true
		}
	}
	return false
}
