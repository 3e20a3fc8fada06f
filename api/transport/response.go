package transport

import (
	"encoding/json"

	"github.com/fastygo/aiops/domain"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every JSON response except the raw incidents feed.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// Meta carries hints a client acts on, such as where to sign in.
type Meta map[string]string

func RedirectTo(path string) Meta {
	return Meta{"redirect": path}
}

func MissingPermission(p domain.Permission) Meta {
	return Meta{"permission": string(p)}
}

func NewSuccess(data interface{}) Envelope {
	return Envelope{Status: StatusSuccess, Data: data}
}

// NewError builds an error envelope; meta is omitted when nil.
func NewError(code, message string, meta Meta) Envelope {
	env := Envelope{Status: StatusError, Code: code, Error: message}
	if meta != nil {
		env.Meta = meta
	}
	return env
}

// FromError renders a domain error with its code as-is.
func FromError(err *domain.Error, meta Meta) Envelope {
	return NewError(string(err.Code), err.Message, meta)
}

// Bytes encodes the envelope. Envelopes hold only JSON-safe values, so a
// failure yields a bare error envelope.
func (e Envelope) Bytes() []byte {
	out, err := json.Marshal(e)
	if err != nil {
		return []byte(`{"status":"error","code":"INTERNAL"}`)
	}
	return out
}
