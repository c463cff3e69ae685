package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session is a durable conversation context. Operations submitted into the
// same session share agent-side context; runs are appended in submission
// order and never rewritten.
type Session struct {
	SessionID string          `json:"session_id"`
	CreatedAt time.Time       `json:"created_at"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// Run is one instruction/reply exchange within a session. A run is created
// in a terminal state: the gateway either completed, failed, or timed out
// before the run is appended to the session history.
type Run struct {
	RunID       string        `json:"run_id"`
	SessionID   string        `json:"session_id"`
	Operation   OperationKind `json:"operation"`
	Instruction string        `json:"instruction"`
	Reply       string        `json:"reply,omitempty"`
	Status      RunStatus     `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	EndedAt     *time.Time    `json:"ended_at,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return "sess_" + uuid.New().String()[:8]
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return "run_" + uuid.New().String()[:8]
}
