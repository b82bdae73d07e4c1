package activity

import "github.com/zxrrcpandey/rahulops/internal/model"

// DeploymentContext bundles all data needed by the site deployment workflow.
type DeploymentContext struct {
	Job    model.Job    `json:"job"`
	Site   model.Site   `json:"site"`
	Host   model.Host   `json:"host"`
	Client model.Client `json:"client"`
}

// SiteContext bundles a site with its host and client for suspend, reactivate
// and backup workflows.
type SiteContext struct {
	Site   model.Site   `json:"site"`
	Host   model.Host   `json:"host"`
	Client model.Client `json:"client"`
}

// BackupContext bundles all data needed by the backup workflow.
type BackupContext struct {
	Backup model.Backup `json:"backup"`
	Site   model.Site   `json:"site"`
	Host   model.Host   `json:"host"`
}

// ScheduleItem pairs a backup schedule with the site it covers. The scheduled
// backup sweep only needs these fields to decide eligibility.
type ScheduleItem struct {
	Schedule   model.BackupSchedule `json:"schedule"`
	SiteName   string               `json:"site_name"`
	SiteStatus string               `json:"site_status"`
}
