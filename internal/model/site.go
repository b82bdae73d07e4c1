package model

import "time"

// Site is one provisioned application instance on a host. Subscription fields
// drive the suspend and reminder sweeps.
type Site struct {
	ID                    string     `json:"id" db:"id"`
	HostID                string     `json:"host_id" db:"host_id"`
	ClientID              string     `json:"client_id" db:"client_id"`
	Name                  string     `json:"name" db:"name"`
	Apps                  []string   `json:"apps" db:"apps"`
	Status                string     `json:"status" db:"status"`
	SSLEnabled            bool       `json:"ssl_enabled" db:"ssl_enabled"`
	SchedulerEnabled      bool       `json:"scheduler_enabled" db:"scheduler_enabled"`
	Plan                  string     `json:"plan" db:"plan"`
	Amount                float64    `json:"amount" db:"amount"`
	BillingCycle          string     `json:"billing_cycle" db:"billing_cycle"`
	ExpiresAt             *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	SuspendedAt           *time.Time `json:"suspended_at,omitempty" db:"suspended_at"`
	SuspensionReason      *string    `json:"suspension_reason,omitempty" db:"suspension_reason"`
	ReminderSentAt        *time.Time `json:"reminder_sent_at,omitempty" db:"reminder_sent_at"`
	DeploymentCompletedAt *time.Time `json:"deployment_completed_at,omitempty" db:"deployment_completed_at"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

// SuspensionPolicy is the auto-suspension configuration stored under the
// "auto_suspension" settings key.
type SuspensionPolicy struct {
	Enabled         bool  `json:"enabled"`
	GracePeriodDays int   `json:"grace_period_days"`
	SendReminders   bool  `json:"send_reminders"`
	ReminderDays    []int `json:"reminder_days"`
}

// SuspendRequest is the argument to SuspendSiteWorkflow.
type SuspendRequest struct {
	SiteID string `json:"site_id"`
	Reason string `json:"reason"`
}

// ReactivateRequest is the argument to ReactivateSiteWorkflow.
type ReactivateRequest struct {
	SiteID    string    `json:"site_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DefaultSuspensionPolicy matches the behavior applied when no settings row
// exists yet.
func DefaultSuspensionPolicy() SuspensionPolicy {
	return SuspensionPolicy{
		Enabled:         true,
		GracePeriodDays: 3,
		SendReminders:   true,
		ReminderDays:    []int{7, 3, 1, 0},
	}
}
