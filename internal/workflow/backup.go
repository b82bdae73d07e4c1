package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

// RunSiteBackupWorkflow performs one backup run for a site. The archive is
// produced on the site's host; when an offsite bucket is configured the
// archive is shipped there and the backup record points at the bucket copy.
func RunSiteBackupWorkflow(ctx workflow.Context, backupID string) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 15 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    3,
			InitialInterval:    1 * time.Second,
			MaximumInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	var bc activity.BackupContext
	if err := workflow.ExecuteActivity(ctx, "GetBackupContext", backupID).Get(ctx, &bc); err != nil {
		_ = workflow.ExecuteActivity(ctx, "FailBackup", activity.FailBackupParams{
			BackupID: backupID,
			Message:  err.Error(),
		}).Get(ctx, nil)
		return err
	}

	if err := workflow.ExecuteActivity(ctx, "MarkBackupRunning", backupID).Get(ctx, nil); err != nil {
		return err
	}

	var result activity.BackupResult
	err := workflow.ExecuteActivity(ctx, "ExecuteBackup", activity.ExecuteBackupParams{
		Host:       bc.Host,
		SiteName:   bc.Site.Name,
		BackupType: bc.Backup.Type,
	}).Get(ctx, &result)
	if err != nil {
		_ = workflow.ExecuteActivity(ctx, "FailBackup", activity.FailBackupParams{
			BackupID: backupID,
			Message:  err.Error(),
		}).Get(ctx, nil)
		return err
	}

	// Offsite upload is best effort. A failed upload keeps the host-local
	// archive as the record of truth.
	storagePath := result.StoragePath
	var remotePath string
	err = workflow.ExecuteActivity(ctx, "UploadBackup", activity.UploadBackupParams{
		Host:        bc.Host,
		BackupID:    backupID,
		SiteName:    bc.Site.Name,
		StoragePath: result.StoragePath,
	}).Get(ctx, &remotePath)
	if err != nil {
		logger.Warn("offsite upload failed, keeping host-local archive",
			"backupID", backupID, "error", err)
	} else if remotePath != "" {
		storagePath = remotePath
	}

	return workflow.ExecuteActivity(ctx, "CompleteBackup", activity.CompleteBackupParams{
		BackupID:    backupID,
		StoragePath: storagePath,
		SizeBytes:   result.SizeBytes,
	}).Get(ctx, nil)
}

// ScheduledBackupsWorkflow is the nightly sweep that runs every due backup
// schedule. A schedule is due when its frequency matches the current day and
// it has not already run today. Backups for suspended or failed sites are
// skipped until the site is active again.
func ScheduledBackupsWorkflow(ctx workflow.Context) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	var items []activity.ScheduleItem
	if err := workflow.ExecuteActivity(ctx, "ListActiveBackupSchedules").Get(ctx, &items); err != nil {
		return err
	}

	now := workflow.Now(ctx)
	processed, skipped, failed := 0, 0, 0

	for _, item := range items {
		if item.SiteStatus != model.SiteStatusActive {
			skipped++
			continue
		}
		if !scheduleDue(item.Schedule, now) {
			skipped++
			continue
		}
		if item.Schedule.LastRunAt != nil && sameDay(*item.Schedule.LastRunAt, now) {
			skipped++
			continue
		}

		var backupID string
		err := workflow.ExecuteActivity(ctx, "CreateScheduledBackup", activity.CreateScheduledBackupParams{
			SiteID:     item.Schedule.SiteID,
			BackupType: item.Schedule.BackupType,
		}).Get(ctx, &backupID)
		if err != nil {
			logger.Error("failed to create scheduled backup", "siteID", item.Schedule.SiteID, "error", err)
			failed++
			continue
		}

		childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID: "site-backup-" + backupID,
		})
		err = workflow.ExecuteChildWorkflow(childCtx, RunSiteBackupWorkflow, backupID).Get(ctx, nil)
		if err != nil {
			logger.Error("scheduled backup failed", "backupID", backupID, "error", err)
			failed++
			// Continue with other schedules even if one backup fails.
			continue
		}

		if err := workflow.ExecuteActivity(ctx, "TouchBackupSchedule", item.Schedule.ID).Get(ctx, nil); err != nil {
			logger.Error("failed to stamp schedule", "scheduleID", item.Schedule.ID, "error", err)
		}
		processed++
	}

	return workflow.ExecuteActivity(ctx, "RecordSweepResult", activity.RecordSweepResultParams{
		Sweep:     "scheduled_backups",
		Processed: processed,
		Skipped:   skipped,
		Failed:    failed,
	}).Get(ctx, nil)
}

// scheduleDue reports whether the schedule's frequency matches the given day.
// Weekly schedules fire on their configured weekday, monthly schedules on the
// first of the month.
func scheduleDue(s model.BackupSchedule, now time.Time) bool {
	switch s.Frequency {
	case model.FrequencyDaily:
		return true
	case model.FrequencyWeekly:
		return int(now.Weekday()) == s.Weekday
	case model.FrequencyMonthly:
		return now.Day() == 1
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
