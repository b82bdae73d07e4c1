package model

import "time"

// Job type constants.
const (
	JobTypeDeploy = "deploy"
	JobTypeSetup  = "setup"
	JobTypeBackup = "backup"
)

// Job is a tracked unit of orchestration work against a single site or host.
// Progress is monotonically non-decreasing while the job is running and the
// record is immutable once it reaches a terminal status.
type Job struct {
	ID           string     `json:"id" db:"id"`
	SiteID       string     `json:"site_id" db:"site_id"`
	JobType      string     `json:"job_type" db:"job_type"`
	Status       string     `json:"status" db:"status"`
	Progress     int        `json:"progress" db:"progress"`
	CurrentStep  string     `json:"current_step" db:"current_step"`
	ErrorMessage *string    `json:"error_message,omitempty" db:"error_message"`
	StartedAt    *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
