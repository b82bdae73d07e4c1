package model

import (
	"encoding/json"
	"time"
)

// Notification kinds emitted by the orchestration core.
const (
	NotifyDeploymentSuccess    = "deployment_success"
	NotifyDeploymentFailed     = "deployment_failed"
	NotifySubscriptionExpiring = "subscription_expiring"
	NotifySiteSuspended        = "site_suspended"
	NotifySiteReactivated      = "site_reactivated"
	NotifyHostAlert            = "host_alert"
)

// Notification is one row of the notification outbox. Rows are written by
// pipelines and sweeps and drained by a separate consumer, so a notifier
// outage never affects orchestration correctness.
type Notification struct {
	ID        string          `json:"id" db:"id"`
	Kind      string          `json:"kind" db:"kind"`
	Recipient string          `json:"recipient" db:"recipient"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	Status    string          `json:"status" db:"status"`
	Attempts  int             `json:"attempts" db:"attempts"`
	LastError *string         `json:"last_error,omitempty" db:"last_error"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty" db:"sent_at"`
}
