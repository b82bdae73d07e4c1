package request

// CreateBackup is the request body for triggering a manual backup.
type CreateBackup struct {
	Type string `json:"type" validate:"required,oneof=full database files"`
}

// UpsertBackupSchedule is the request body for creating or updating a backup
// schedule. Weekday is only read for weekly schedules.
type UpsertBackupSchedule struct {
	Frequency  string `json:"frequency" validate:"required,oneof=daily weekly monthly"`
	Weekday    int    `json:"weekday" validate:"min=0,max=6"`
	BackupType string `json:"backup_type" validate:"required,oneof=full database files"`
	IsActive   *bool  `json:"is_active"`
}
