package model

import (
	"encoding/json"
	"time"
)

// ActivityLogEntry is an immutable audit fact. The log is append-only and
// written by every mutating operation in the orchestration core.
type ActivityLogEntry struct {
	ID         string          `json:"id" db:"id"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   string          `json:"entity_id" db:"entity_id"`
	Action     string          `json:"action" db:"action"`
	Detail     json.RawMessage `json:"detail,omitempty" db:"detail"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
