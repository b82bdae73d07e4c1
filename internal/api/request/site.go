package request

import "time"

// CreateSite is the request body for creating a site.
type CreateSite struct {
	HostID       string     `json:"host_id" validate:"required"`
	ClientID     string     `json:"client_id" validate:"required"`
	Name         string     `json:"name" validate:"required,sitename"`
	Apps         []string   `json:"apps" validate:"dive,min=1"`
	SSLEnabled   *bool      `json:"ssl_enabled"`
	Plan         string     `json:"plan"`
	Amount       float64    `json:"amount" validate:"omitempty,min=0"`
	BillingCycle string     `json:"billing_cycle" validate:"omitempty,oneof=monthly yearly"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// SuspendSite is the request body for suspending a site.
type SuspendSite struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// ReactivateSite is the request body for reactivating a suspended site.
// A nil expiry extends the subscription by the default period.
type ReactivateSite struct {
	ExpiresAt *time.Time `json:"expires_at"`
}
