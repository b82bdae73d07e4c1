package core

import (
	temporalclient "go.temporal.io/sdk/client"
)

const taskQueue = "fleet-tasks"

type Services struct {
	Host         *HostService
	Client       *ClientService
	Site         *SiteService
	Job          *JobService
	Backup       *BackupService
	Subscription *SubscriptionService
	Settings     *SettingsService
	ActivityLog  *ActivityLogService
	Dashboard    *DashboardService
}

func NewServices(db DB, tc temporalclient.Client) *Services {
	return &Services{
		Host:         NewHostService(db, tc),
		Client:       NewClientService(db),
		Site:         NewSiteService(db),
		Job:          NewJobService(db, tc),
		Backup:       NewBackupService(db, tc),
		Subscription: NewSubscriptionService(db, tc),
		Settings:     NewSettingsService(db),
		ActivityLog:  NewActivityLogService(db),
		Dashboard:    NewDashboardService(db),
	}
}
