package model

// Host status constants.
const (
	HostStatusPending      = "pending"
	HostStatusSetupRunning = "setup_running"
	HostStatusActive       = "active"
	HostStatusMaintenance  = "maintenance"
	HostStatusOffline      = "offline"
)

// Host health classification constants.
const (
	HealthUnknown  = "unknown"
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"
	HealthOffline  = "offline"
)

// Site status constants.
const (
	SiteStatusPending   = "pending"
	SiteStatusDeploying = "deploying"
	SiteStatusActive    = "active"
	SiteStatusSuspended = "suspended"
	SiteStatusFailed    = "failed"
	SiteStatusDeleted   = "deleted"
)

// Job status constants.
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
)

// Backup status constants.
const (
	BackupStatusPending   = "pending"
	BackupStatusRunning   = "running"
	BackupStatusCompleted = "completed"
	BackupStatusFailed    = "failed"
)

// Notification outbox status constants.
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)
