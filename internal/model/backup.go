package model

import "time"

// Backup type constants.
const (
	BackupTypeFull     = "full"
	BackupTypeDatabase = "database"
	BackupTypeFiles    = "files"
)

// Backup trigger constants.
const (
	BackupTriggerManual    = "manual"
	BackupTriggerScheduled = "scheduled"
)

// Backup schedule frequency constants.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Backup is one backup run for a site, manual or scheduled.
type Backup struct {
	ID           string     `json:"id" db:"id"`
	SiteID       string     `json:"site_id" db:"site_id"`
	Type         string     `json:"type" db:"type"`
	Trigger      string     `json:"trigger" db:"trigger"`
	Status       string     `json:"status" db:"status"`
	StoragePath  string     `json:"storage_path,omitempty" db:"storage_path"`
	SizeBytes    int64      `json:"size_bytes" db:"size_bytes"`
	ErrorMessage *string    `json:"error_message,omitempty" db:"error_message"`
	StartedAt    *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// BackupSchedule drives the scheduled backup sweep's eligibility test.
// Weekday is only meaningful for weekly schedules (0 = Sunday, matching
// time.Weekday).
type BackupSchedule struct {
	ID         string     `json:"id" db:"id"`
	SiteID     string     `json:"site_id" db:"site_id"`
	Frequency  string     `json:"frequency" db:"frequency"`
	Weekday    int        `json:"weekday" db:"weekday"`
	BackupType string     `json:"backup_type" db:"backup_type"`
	IsActive   bool       `json:"is_active" db:"is_active"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty" db:"last_run_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
