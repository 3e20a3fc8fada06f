package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const KindAudit = "audit"

// Item is a write that could not reach primary storage and waits in the spool.
type Item struct {
	ID       string          `json:"id"`
	Kind     string          `json:"kind"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
	QueuedAt time.Time       `json:"queued_at"`

	key []byte
}

func (i *Item) fill() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Kind == "" {
		i.Kind = KindAudit
	}
	if i.QueuedAt.IsZero() {
		i.QueuedAt = time.Now().UTC()
	}
}
