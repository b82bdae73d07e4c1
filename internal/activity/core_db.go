package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zxrrcpandey/rahulops/internal/metrics"
	"github.com/zxrrcpandey/rahulops/internal/model"
	"github.com/zxrrcpandey/rahulops/internal/platform"
)

// DB defines the database operations used by activity structs.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CoreDB contains activities that read from and update the core database.
type CoreDB struct {
	db DB
}

// NewCoreDB creates a new CoreDB activity struct.
func NewCoreDB(db DB) *CoreDB {
	return &CoreDB{db: db}
}

// GetDeploymentContext loads the job plus its site, host and client in one
// round trip per table.
func (a *CoreDB) GetDeploymentContext(ctx context.Context, jobID string) (*DeploymentContext, error) {
	var dc DeploymentContext
	err := a.db.QueryRow(ctx,
		`SELECT id, site_id, job_type, status, progress, current_step, error_message, started_at, completed_at, created_at, updated_at
		 FROM deployment_jobs WHERE id = $1`, jobID,
	).Scan(&dc.Job.ID, &dc.Job.SiteID, &dc.Job.JobType, &dc.Job.Status, &dc.Job.Progress,
		&dc.Job.CurrentStep, &dc.Job.ErrorMessage, &dc.Job.StartedAt, &dc.Job.CompletedAt,
		&dc.Job.CreatedAt, &dc.Job.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get job by id: %w", err)
	}

	site, err := a.GetSiteByID(ctx, dc.Job.SiteID)
	if err != nil {
		return nil, err
	}
	dc.Site = *site

	host, err := a.GetHostByID(ctx, site.HostID)
	if err != nil {
		return nil, err
	}
	dc.Host = *host

	client, err := a.GetClientByID(ctx, site.ClientID)
	if err != nil {
		return nil, err
	}
	dc.Client = *client

	return &dc, nil
}

// GetSiteContext loads a site with its host and client.
func (a *CoreDB) GetSiteContext(ctx context.Context, siteID string) (*SiteContext, error) {
	site, err := a.GetSiteByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	host, err := a.GetHostByID(ctx, site.HostID)
	if err != nil {
		return nil, err
	}
	client, err := a.GetClientByID(ctx, site.ClientID)
	if err != nil {
		return nil, err
	}
	return &SiteContext{Site: *site, Host: *host, Client: *client}, nil
}

// GetBackupContext loads a backup with its site and host.
func (a *CoreDB) GetBackupContext(ctx context.Context, backupID string) (*BackupContext, error) {
	var bc BackupContext
	err := a.db.QueryRow(ctx,
		`SELECT id, site_id, type, trigger, status, storage_path, size_bytes, error_message, started_at, completed_at, created_at, updated_at
		 FROM backups WHERE id = $1`, backupID,
	).Scan(&bc.Backup.ID, &bc.Backup.SiteID, &bc.Backup.Type, &bc.Backup.Trigger,
		&bc.Backup.Status, &bc.Backup.StoragePath, &bc.Backup.SizeBytes, &bc.Backup.ErrorMessage,
		&bc.Backup.StartedAt, &bc.Backup.CompletedAt, &bc.Backup.CreatedAt, &bc.Backup.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get backup by id: %w", err)
	}

	site, err := a.GetSiteByID(ctx, bc.Backup.SiteID)
	if err != nil {
		return nil, err
	}
	bc.Site = *site

	host, err := a.GetHostByID(ctx, site.HostID)
	if err != nil {
		return nil, err
	}
	bc.Host = *host

	return &bc, nil
}

// GetSiteByID retrieves a site by its ID.
func (a *CoreDB) GetSiteByID(ctx context.Context, id string) (*model.Site, error) {
	var s model.Site
	err := a.db.QueryRow(ctx,
		`SELECT id, host_id, client_id, name, apps, status, ssl_enabled, scheduler_enabled, plan, amount, billing_cycle, expires_at, suspended_at, suspension_reason, reminder_sent_at, deployment_completed_at, created_at, updated_at
		 FROM sites WHERE id = $1`, id,
	).Scan(&s.ID, &s.HostID, &s.ClientID, &s.Name, &s.Apps, &s.Status, &s.SSLEnabled,
		&s.SchedulerEnabled, &s.Plan, &s.Amount, &s.BillingCycle, &s.ExpiresAt,
		&s.SuspendedAt, &s.SuspensionReason, &s.ReminderSentAt, &s.DeploymentCompletedAt,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get site by id: %w", err)
	}
	return &s, nil
}

// GetHostByID retrieves a host by its ID.
func (a *CoreDB) GetHostByID(ctx context.Context, id string) (*model.Host, error) {
	var h model.Host
	err := a.db.QueryRow(ctx,
		`SELECT id, name, ip_address, ssh_port, ssh_user, ssh_key_path, db_root_password, app_root, max_sites, status, health_status, cpu_usage, ram_usage, disk_usage, uptime, last_health_check_at, setup_completed_at, created_at, updated_at
		 FROM hosts WHERE id = $1`, id,
	).Scan(&h.ID, &h.Name, &h.IPAddress, &h.SSHPort, &h.SSHUser, &h.SSHKeyPath, &h.DBRootPassword, &h.AppRoot,
		&h.MaxSites, &h.Status, &h.HealthStatus, &h.CPUUsage, &h.RAMUsage, &h.DiskUsage,
		&h.Uptime, &h.LastHealthCheckAt, &h.SetupCompletedAt, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get host by id: %w", err)
	}
	return &h, nil
}

// GetClientByID retrieves a client by its ID.
func (a *CoreDB) GetClientByID(ctx context.Context, id string) (*model.Client, error) {
	var c model.Client
	err := a.db.QueryRow(ctx,
		`SELECT id, name, email, created_at, updated_at FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get client by id: %w", err)
	}
	return &c, nil
}

// MarkJobRunning sets a job to running and stamps started_at.
func (a *CoreDB) MarkJobRunning(ctx context.Context, jobID string) error {
	_, err := a.db.Exec(ctx,
		`UPDATE deployment_jobs SET status = $1, started_at = now(), updated_at = now()
		 WHERE id = $2 AND status = $3`,
		model.JobStatusRunning, jobID, model.JobStatusQueued,
	)
	return err
}

// UpdateJobProgressParams holds the parameters for UpdateJobProgress.
type UpdateJobProgressParams struct {
	JobID    string
	Progress int
	Step     string
}

// UpdateJobProgress advances a running job's checkpoint. Progress never moves
// backwards even if the activity is retried out of order.
func (a *CoreDB) UpdateJobProgress(ctx context.Context, params UpdateJobProgressParams) error {
	_, err := a.db.Exec(ctx,
		`UPDATE deployment_jobs
		 SET progress = GREATEST(progress, $1), current_step = $2, updated_at = now()
		 WHERE id = $3 AND status = $4`,
		params.Progress, params.Step, params.JobID, model.JobStatusRunning,
	)
	return err
}

// CompleteJob moves a job to completed at 100 percent.
func (a *CoreDB) CompleteJob(ctx context.Context, jobID string) error {
	tag, err := a.db.Exec(ctx,
		`UPDATE deployment_jobs
		 SET status = $1, progress = 100, completed_at = now(), updated_at = now()
		 WHERE id = $2 AND status = $3`,
		model.JobStatusCompleted, jobID, model.JobStatusRunning,
	)
	if err == nil && tag.RowsAffected() > 0 {
		metrics.DeploymentsTotal.WithLabelValues(model.JobStatusCompleted).Inc()
	}
	return err
}

// FailJobParams holds the parameters for FailJob.
type FailJobParams struct {
	JobID   string
	Message string
}

// FailJob moves a job to failed, keeping the last checkpoint reached.
func (a *CoreDB) FailJob(ctx context.Context, params FailJobParams) error {
	tag, err := a.db.Exec(ctx,
		`UPDATE deployment_jobs
		 SET status = $1, error_message = $2, completed_at = now(), updated_at = now()
		 WHERE id = $3 AND status IN ($4, $5)`,
		model.JobStatusFailed, params.Message, params.JobID,
		model.JobStatusQueued, model.JobStatusRunning,
	)
	if err == nil && tag.RowsAffected() > 0 {
		metrics.DeploymentsTotal.WithLabelValues(model.JobStatusFailed).Inc()
	}
	return err
}

// CancelJob moves a queued or running job to cancelled.
func (a *CoreDB) CancelJob(ctx context.Context, jobID string) error {
	tag, err := a.db.Exec(ctx,
		`UPDATE deployment_jobs
		 SET status = $1, completed_at = now(), updated_at = now()
		 WHERE id = $2 AND status IN ($3, $4)`,
		model.JobStatusCancelled, jobID, model.JobStatusQueued, model.JobStatusRunning,
	)
	if err == nil && tag.RowsAffected() > 0 {
		metrics.DeploymentsTotal.WithLabelValues(model.JobStatusCancelled).Inc()
	}
	return err
}

// UpdateSiteStatusParams holds the parameters for UpdateSiteStatus.
type UpdateSiteStatusParams struct {
	SiteID string
	Status string
}

// UpdateSiteStatus sets the status of a site.
func (a *CoreDB) UpdateSiteStatus(ctx context.Context, params UpdateSiteStatusParams) error {
	_, err := a.db.Exec(ctx,
		`UPDATE sites SET status = $1, updated_at = now() WHERE id = $2`,
		params.Status, params.SiteID,
	)
	return err
}

// MarkSiteDeployed flips a site to active after a successful deployment.
func (a *CoreDB) MarkSiteDeployed(ctx context.Context, siteID string) error {
	_, err := a.db.Exec(ctx,
		`UPDATE sites SET status = $1, deployment_completed_at = now(), updated_at = now()
		 WHERE id = $2`,
		model.SiteStatusActive, siteID,
	)
	return err
}

// SetSiteFlagsParams holds the parameters for SetSiteFlags.
type SetSiteFlagsParams struct {
	SiteID           string
	SSLEnabled       *bool
	SchedulerEnabled *bool
}

// SetSiteFlags updates the SSL and scheduler flags. Nil fields are untouched.
func (a *CoreDB) SetSiteFlags(ctx context.Context, params SetSiteFlagsParams) error {
	_, err := a.db.Exec(ctx,
		`UPDATE sites
		 SET ssl_enabled = COALESCE($1, ssl_enabled),
		     scheduler_enabled = COALESCE($2, scheduler_enabled),
		     updated_at = now()
		 WHERE id = $3`,
		params.SSLEnabled, params.SchedulerEnabled, params.SiteID,
	)
	return err
}

// SuspendSiteRecordParams holds the parameters for SuspendSiteRecord.
type SuspendSiteRecordParams struct {
	SiteID string
	Reason string
}

// SuspendSiteRecord marks a site suspended. The WHERE clause makes the
// activity idempotent under retries.
func (a *CoreDB) SuspendSiteRecord(ctx context.Context, params SuspendSiteRecordParams) error {
	_, err := a.db.Exec(ctx,
		`UPDATE sites
		 SET status = $1, suspended_at = now(), suspension_reason = $2, updated_at = now()
		 WHERE id = $3 AND status <> $1`,
		model.SiteStatusSuspended, params.Reason, params.SiteID,
	)
	return err
}

// ReactivateSiteRecordParams holds the parameters for ReactivateSiteRecord.
type ReactivateSiteRecordParams struct {
	SiteID    string
	ExpiresAt time.Time
}

// ReactivateSiteRecord lifts a suspension: the site returns to active with a
// fresh expiry and cleared suspension and reminder markers.
func (a *CoreDB) ReactivateSiteRecord(ctx context.Context, params ReactivateSiteRecordParams) error {
	_, err := a.db.Exec(ctx,
		`UPDATE sites
		 SET status = $1, expires_at = $2, suspended_at = NULL, suspension_reason = NULL,
		     reminder_sent_at = NULL, updated_at = now()
		 WHERE id = $3`,
		model.SiteStatusActive, params.ExpiresAt, params.SiteID,
	)
	return err
}

// ListSitesExpiredBefore returns the IDs of active sites whose subscription
// expired before the cutoff. The suspend sweep computes the cutoff from the
// grace period.
func (a *CoreDB) ListSitesExpiredBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := a.db.Query(ctx,
		`SELECT id FROM sites
		 WHERE status = $1 AND expires_at IS NOT NULL AND expires_at < $2
		 ORDER BY expires_at`,
		model.SiteStatusActive, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("list expired sites: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan site id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ExpiringSite is one row of the reminder sweep's working set.
type ExpiringSite struct {
	SiteID     string    `json:"site_id"`
	SiteName   string    `json:"site_name"`
	ClientName string    `json:"client_name"`
	Email      string    `json:"email"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ListSitesExpiringBefore returns active sites whose subscription expires
// before the horizon, joined with the client contact.
func (a *CoreDB) ListSitesExpiringBefore(ctx context.Context, horizon time.Time) ([]ExpiringSite, error) {
	rows, err := a.db.Query(ctx,
		`SELECT s.id, s.name, c.name, c.email, s.expires_at
		 FROM sites s JOIN clients c ON s.client_id = c.id
		 WHERE s.status = $1 AND s.expires_at IS NOT NULL AND s.expires_at <= $2
		 ORDER BY s.expires_at`,
		model.SiteStatusActive, horizon,
	)
	if err != nil {
		return nil, fmt.Errorf("list expiring sites: %w", err)
	}
	defer rows.Close()

	var sites []ExpiringSite
	for rows.Next() {
		var e ExpiringSite
		if err := rows.Scan(&e.SiteID, &e.SiteName, &e.ClientName, &e.Email, &e.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan expiring site: %w", err)
		}
		sites = append(sites, e)
	}
	return sites, rows.Err()
}

// RecordReminderDispatchParams holds the parameters for RecordReminderDispatch.
type RecordReminderDispatchParams struct {
	SiteID        string
	ThresholdDays int
	SentOn        time.Time
}

// RecordReminderDispatch claims the dedupe key for one reminder. It returns
// false when the key already exists, meaning this reminder was already sent.
func (a *CoreDB) RecordReminderDispatch(ctx context.Context, params RecordReminderDispatchParams) (bool, error) {
	tag, err := a.db.Exec(ctx,
		`INSERT INTO reminder_dispatches (site_id, threshold_days, sent_on)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (site_id, threshold_days, sent_on) DO NOTHING`,
		params.SiteID, params.ThresholdDays, params.SentOn.Format("2006-01-02"),
	)
	if err != nil {
		return false, fmt.Errorf("record reminder dispatch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	_, err = a.db.Exec(ctx,
		`UPDATE sites SET reminder_sent_at = now(), updated_at = now() WHERE id = $1`,
		params.SiteID,
	)
	if err != nil {
		return false, fmt.Errorf("stamp reminder sent: %w", err)
	}
	return true, nil
}

// ListActiveBackupSchedules returns all active schedules joined with the
// covered site's name and status.
func (a *CoreDB) ListActiveBackupSchedules(ctx context.Context) ([]ScheduleItem, error) {
	rows, err := a.db.Query(ctx,
		`SELECT bs.id, bs.site_id, bs.frequency, bs.weekday, bs.backup_type, bs.is_active, bs.last_run_at, bs.created_at, bs.updated_at,
		        s.name, s.status
		 FROM backup_schedules bs JOIN sites s ON bs.site_id = s.id
		 WHERE bs.is_active = true
		 ORDER BY bs.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list active backup schedules: %w", err)
	}
	defer rows.Close()

	var items []ScheduleItem
	for rows.Next() {
		var it ScheduleItem
		if err := rows.Scan(&it.Schedule.ID, &it.Schedule.SiteID, &it.Schedule.Frequency,
			&it.Schedule.Weekday, &it.Schedule.BackupType, &it.Schedule.IsActive,
			&it.Schedule.LastRunAt, &it.Schedule.CreatedAt, &it.Schedule.UpdatedAt,
			&it.SiteName, &it.SiteStatus); err != nil {
			return nil, fmt.Errorf("scan backup schedule: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// TouchBackupSchedule stamps last_run_at on a schedule.
func (a *CoreDB) TouchBackupSchedule(ctx context.Context, scheduleID string) error {
	_, err := a.db.Exec(ctx,
		`UPDATE backup_schedules SET last_run_at = now(), updated_at = now() WHERE id = $1`,
		scheduleID,
	)
	return err
}

// CreateScheduledBackupParams holds the parameters for CreateScheduledBackup.
type CreateScheduledBackupParams struct {
	SiteID     string
	BackupType string
}

// CreateScheduledBackup inserts a pending scheduled backup row and returns
// its ID.
func (a *CoreDB) CreateScheduledBackup(ctx context.Context, params CreateScheduledBackupParams) (string, error) {
	id := platform.NewID()
	_, err := a.db.Exec(ctx,
		`INSERT INTO backups (id, site_id, type, trigger, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, params.SiteID, params.BackupType, model.BackupTriggerScheduled, model.BackupStatusPending,
	)
	if err != nil {
		return "", fmt.Errorf("insert scheduled backup: %w", err)
	}
	return id, nil
}

// MarkBackupRunning sets a backup to running and stamps started_at.
func (a *CoreDB) MarkBackupRunning(ctx context.Context, backupID string) error {
	_, err := a.db.Exec(ctx,
		`UPDATE backups SET status = $1, started_at = now(), updated_at = now()
		 WHERE id = $2 AND status = $3`,
		model.BackupStatusRunning, backupID, model.BackupStatusPending,
	)
	return err
}

// CompleteBackupParams holds the parameters for CompleteBackup.
type CompleteBackupParams struct {
	BackupID    string
	StoragePath string
	SizeBytes   int64
}

// CompleteBackup records the archive location and size and finishes the run.
func (a *CoreDB) CompleteBackup(ctx context.Context, params CompleteBackupParams) error {
	_, err := a.db.Exec(ctx,
		`UPDATE backups
		 SET status = $1, storage_path = $2, size_bytes = $3, completed_at = now(), updated_at = now()
		 WHERE id = $4`,
		model.BackupStatusCompleted, params.StoragePath, params.SizeBytes, params.BackupID,
	)
	return err
}

// FailBackupParams holds the parameters for FailBackup.
type FailBackupParams struct {
	BackupID string
	Message  string
}

// FailBackup marks a backup run as failed.
func (a *CoreDB) FailBackup(ctx context.Context, params FailBackupParams) error {
	_, err := a.db.Exec(ctx,
		`UPDATE backups
		 SET status = $1, error_message = $2, completed_at = now(), updated_at = now()
		 WHERE id = $3`,
		model.BackupStatusFailed, params.Message, params.BackupID,
	)
	return err
}

// ListActiveHosts returns all hosts the health sweep should probe.
func (a *CoreDB) ListActiveHosts(ctx context.Context) ([]model.Host, error) {
	rows, err := a.db.Query(ctx,
		`SELECT id, name, ip_address, ssh_port, ssh_user, ssh_key_path, db_root_password, app_root, max_sites, status, health_status, cpu_usage, ram_usage, disk_usage, uptime, last_health_check_at, setup_completed_at, created_at, updated_at
		 FROM hosts WHERE status = $1 ORDER BY name`,
		model.HostStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("list active hosts: %w", err)
	}
	defer rows.Close()

	var hosts []model.Host
	for rows.Next() {
		var h model.Host
		if err := rows.Scan(&h.ID, &h.Name, &h.IPAddress, &h.SSHPort, &h.SSHUser, &h.SSHKeyPath,
			&h.DBRootPassword, &h.AppRoot, &h.MaxSites, &h.Status, &h.HealthStatus, &h.CPUUsage, &h.RAMUsage,
			&h.DiskUsage, &h.Uptime, &h.LastHealthCheckAt, &h.SetupCompletedAt,
			&h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan host row: %w", err)
		}
		hosts = append(hosts, h)
	}
	return hosts, rows.Err()
}

// UpdateHostHealthParams holds the parameters for UpdateHostHealth.
type UpdateHostHealthParams struct {
	HostID string
	Health string
	CPU    *float64
	RAM    *float64
	Disk   *float64
	Uptime *string
}

// UpdateHostHealth records the latest probe result for a host.
func (a *CoreDB) UpdateHostHealth(ctx context.Context, params UpdateHostHealthParams) error {
	_, err := a.db.Exec(ctx,
		`UPDATE hosts
		 SET health_status = $1, cpu_usage = $2, ram_usage = $3, disk_usage = $4, uptime = $5,
		     last_health_check_at = now(), updated_at = now()
		 WHERE id = $6`,
		params.Health, params.CPU, params.RAM, params.Disk, params.Uptime, params.HostID,
	)
	return err
}

// MarkHostSetupComplete flips a host to active once provisioning finished.
func (a *CoreDB) MarkHostSetupComplete(ctx context.Context, hostID string) error {
	_, err := a.db.Exec(ctx,
		`UPDATE hosts SET status = $1, setup_completed_at = now(), updated_at = now()
		 WHERE id = $2`,
		model.HostStatusActive, hostID,
	)
	return err
}

// MarkHostSetupFailed returns a host to pending after a failed setup run so
// the operator can retry.
func (a *CoreDB) MarkHostSetupFailed(ctx context.Context, hostID string) error {
	_, err := a.db.Exec(ctx,
		`UPDATE hosts SET status = $1, updated_at = now() WHERE id = $2`,
		model.HostStatusPending, hostID,
	)
	return err
}

// EnqueueNotificationParams holds the parameters for EnqueueNotification.
type EnqueueNotificationParams struct {
	Kind      string
	Recipient string
	Payload   map[string]string
}

// EnqueueNotification appends one outbox row. Delivery happens out of band.
func (a *CoreDB) EnqueueNotification(ctx context.Context, params EnqueueNotificationParams) error {
	_, err := a.db.Exec(ctx,
		`INSERT INTO notification_outbox (id, kind, recipient, payload)
		 VALUES ($1, $2, $3, $4)`,
		platform.NewID(), params.Kind, params.Recipient, params.Payload,
	)
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// ListPendingNotifications returns the oldest pending outbox rows.
func (a *CoreDB) ListPendingNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	rows, err := a.db.Query(ctx,
		`SELECT id, kind, recipient, payload, status, attempts, last_error, created_at, sent_at
		 FROM notification_outbox WHERE status = $1 ORDER BY created_at LIMIT $2`,
		model.NotificationPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Kind, &n.Recipient, &n.Payload, &n.Status,
			&n.Attempts, &n.LastError, &n.CreatedAt, &n.SentAt); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationSent finishes an outbox row.
func (a *CoreDB) MarkNotificationSent(ctx context.Context, id string) error {
	_, err := a.db.Exec(ctx,
		`UPDATE notification_outbox SET status = $1, sent_at = now() WHERE id = $2`,
		model.NotificationSent, id,
	)
	return err
}

// MarkNotificationFailedParams holds the parameters for MarkNotificationFailed.
type MarkNotificationFailedParams struct {
	ID       string
	Message  string
	MaxTries int
}

// MarkNotificationFailed bumps the attempt counter. The row stays pending
// until MaxTries is exhausted, after which it is parked as failed.
func (a *CoreDB) MarkNotificationFailed(ctx context.Context, params MarkNotificationFailedParams) error {
	_, err := a.db.Exec(ctx,
		`UPDATE notification_outbox
		 SET attempts = attempts + 1, last_error = $1,
		     status = CASE WHEN attempts + 1 >= $2 THEN $3 ELSE status END
		 WHERE id = $4`,
		params.Message, params.MaxTries, model.NotificationFailed, params.ID,
	)
	return err
}

// RecordActivityParams holds the parameters for RecordActivity.
type RecordActivityParams struct {
	EntityType string
	EntityID   string
	Action     string
	Detail     map[string]string
}

// RecordActivity appends one audit fact from a workflow.
func (a *CoreDB) RecordActivity(ctx context.Context, params RecordActivityParams) error {
	_, err := a.db.Exec(ctx,
		`INSERT INTO activity_log (id, entity_type, entity_id, action, detail)
		 VALUES ($1, $2, $3, $4, $5)`,
		platform.NewID(), params.EntityType, params.EntityID, params.Action, params.Detail,
	)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// GetSuspensionPolicy reads the auto-suspension settings, falling back to the
// defaults when no row exists.
func (a *CoreDB) GetSuspensionPolicy(ctx context.Context) (model.SuspensionPolicy, error) {
	var policy model.SuspensionPolicy
	err := a.db.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = 'auto_suspension'`,
	).Scan(&policy)
	if err != nil {
		if err == pgx.ErrNoRows {
			return model.DefaultSuspensionPolicy(), nil
		}
		return model.SuspensionPolicy{}, fmt.Errorf("get suspension policy: %w", err)
	}
	return policy, nil
}

// RecordSweepResultParams holds the parameters for RecordSweepResult.
type RecordSweepResultParams struct {
	Sweep     string
	Processed int
	Skipped   int
	Failed    int
}

// RecordSweepResult publishes one sweep run's counters and leaves an audit
// trail entry for it.
func (a *CoreDB) RecordSweepResult(ctx context.Context, params RecordSweepResultParams) error {
	metrics.SweepItems.WithLabelValues(params.Sweep, "processed").Add(float64(params.Processed))
	metrics.SweepItems.WithLabelValues(params.Sweep, "skipped").Add(float64(params.Skipped))
	metrics.SweepItems.WithLabelValues(params.Sweep, "failed").Add(float64(params.Failed))

	_, err := a.db.Exec(ctx,
		`INSERT INTO activity_log (id, entity_type, entity_id, action, detail)
		 VALUES ($1, $2, $3, $4, $5)`,
		platform.NewID(), "sweep", params.Sweep, "completed",
		map[string]int{"processed": params.Processed, "skipped": params.Skipped, "failed": params.Failed},
	)
	if err != nil {
		return fmt.Errorf("record sweep result: %w", err)
	}
	return nil
}
