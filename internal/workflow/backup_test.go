package workflow

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

// ---------- RunSiteBackupWorkflow ----------

type RunSiteBackupWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *RunSiteBackupWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	registerActivities(s.env)
}

func (s *RunSiteBackupWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *RunSiteBackupWorkflowTestSuite) testBackupContext(backupID string) *activity.BackupContext {
	return &activity.BackupContext{
		Backup: model.Backup{
			ID:      backupID,
			SiteID:  "test-site-1",
			Type:    model.BackupTypeFull,
			Trigger: model.BackupTriggerScheduled,
			Status:  model.BackupStatusPending,
		},
		Site: testSite(),
		Host: testHost(),
	}
}

func (s *RunSiteBackupWorkflowTestSuite) TestSuccess_OffsiteCopy() {
	backupID := "test-backup-1"
	localPath := "/home/frappe/frappe-bench/sites/acme.example.com/private/backups/20260302_020000.tar"

	s.env.OnActivity("GetBackupContext", mock.Anything, backupID).Return(s.testBackupContext(backupID), nil)
	s.env.OnActivity("MarkBackupRunning", mock.Anything, backupID).Return(nil)
	s.env.OnActivity("ExecuteBackup", mock.Anything, mock.MatchedBy(func(p activity.ExecuteBackupParams) bool {
		return p.SiteName == "acme.example.com" && p.BackupType == model.BackupTypeFull
	})).Return(&activity.BackupResult{StoragePath: localPath, SizeBytes: 2048}, nil)
	s.env.OnActivity("UploadBackup", mock.Anything, mock.Anything).
		Return("s3://fleet-backups/acme.example.com/test-backup-1/20260302_020000.tar", nil)
	s.env.OnActivity("CompleteBackup", mock.Anything, activity.CompleteBackupParams{
		BackupID:    backupID,
		StoragePath: "s3://fleet-backups/acme.example.com/test-backup-1/20260302_020000.tar",
		SizeBytes:   2048,
	}).Return(nil)

	s.env.ExecuteWorkflow(RunSiteBackupWorkflow, backupID)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *RunSiteBackupWorkflowTestSuite) TestNoArchiveConfigured_KeepsLocalPath() {
	backupID := "test-backup-2"
	localPath := "/home/frappe/frappe-bench/sites/acme.example.com/private/backups/20260302_020000.tar"

	s.env.OnActivity("GetBackupContext", mock.Anything, backupID).Return(s.testBackupContext(backupID), nil)
	s.env.OnActivity("MarkBackupRunning", mock.Anything, backupID).Return(nil)
	s.env.OnActivity("ExecuteBackup", mock.Anything, mock.Anything).
		Return(&activity.BackupResult{StoragePath: localPath, SizeBytes: 4096}, nil)
	s.env.OnActivity("UploadBackup", mock.Anything, mock.Anything).Return("", nil)
	s.env.OnActivity("CompleteBackup", mock.Anything, activity.CompleteBackupParams{
		BackupID:    backupID,
		StoragePath: localPath,
		SizeBytes:   4096,
	}).Return(nil)

	s.env.ExecuteWorkflow(RunSiteBackupWorkflow, backupID)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *RunSiteBackupWorkflowTestSuite) TestExecuteFails_MarksBackupFailed() {
	backupID := "test-backup-3"

	s.env.OnActivity("GetBackupContext", mock.Anything, backupID).Return(s.testBackupContext(backupID), nil)
	s.env.OnActivity("MarkBackupRunning", mock.Anything, backupID).Return(nil)
	s.env.OnActivity("ExecuteBackup", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("command failed on h1.example.com"))
	s.env.OnActivity("FailBackup", mock.Anything, mock.MatchedBy(func(p activity.FailBackupParams) bool {
		return p.BackupID == backupID && p.Message != ""
	})).Return(nil)

	s.env.ExecuteWorkflow(RunSiteBackupWorkflow, backupID)
	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

func TestRunSiteBackupWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(RunSiteBackupWorkflowTestSuite))
}

// ---------- ScheduledBackupsWorkflow ----------

type ScheduledBackupsWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *ScheduledBackupsWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	registerActivities(s.env)
}

func (s *ScheduledBackupsWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *ScheduledBackupsWorkflowTestSuite) TestEligibility() {
	// Monday March 2nd, 02:00 UTC.
	start := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)
	s.env.SetStartTime(start)

	earlierToday := start.Add(-1 * time.Hour)
	items := []activity.ScheduleItem{
		{Schedule: model.BackupSchedule{ID: "sched-1", SiteID: "site-1", Frequency: model.FrequencyDaily,
			BackupType: model.BackupTypeFull, IsActive: true}, SiteName: "a", SiteStatus: model.SiteStatusActive},
		{Schedule: model.BackupSchedule{ID: "sched-2", SiteID: "site-2", Frequency: model.FrequencyWeekly, Weekday: 1,
			BackupType: model.BackupTypeDatabase, IsActive: true}, SiteName: "b", SiteStatus: model.SiteStatusActive},
		{Schedule: model.BackupSchedule{ID: "sched-3", SiteID: "site-3", Frequency: model.FrequencyWeekly, Weekday: 3,
			BackupType: model.BackupTypeFull, IsActive: true}, SiteName: "c", SiteStatus: model.SiteStatusActive},
		{Schedule: model.BackupSchedule{ID: "sched-4", SiteID: "site-4", Frequency: model.FrequencyMonthly,
			BackupType: model.BackupTypeFull, IsActive: true}, SiteName: "d", SiteStatus: model.SiteStatusActive},
		{Schedule: model.BackupSchedule{ID: "sched-5", SiteID: "site-5", Frequency: model.FrequencyDaily,
			BackupType: model.BackupTypeFull, IsActive: true}, SiteName: "e", SiteStatus: model.SiteStatusSuspended},
		{Schedule: model.BackupSchedule{ID: "sched-6", SiteID: "site-6", Frequency: model.FrequencyDaily,
			BackupType: model.BackupTypeFull, IsActive: true, LastRunAt: &earlierToday}, SiteName: "f", SiteStatus: model.SiteStatusActive},
	}
	s.env.OnActivity("ListActiveBackupSchedules", mock.Anything).Return(items, nil)

	s.env.OnActivity("CreateScheduledBackup", mock.Anything, activity.CreateScheduledBackupParams{
		SiteID: "site-1", BackupType: model.BackupTypeFull,
	}).Return("backup-1", nil)
	s.env.OnActivity("CreateScheduledBackup", mock.Anything, activity.CreateScheduledBackupParams{
		SiteID: "site-2", BackupType: model.BackupTypeDatabase,
	}).Return("backup-2", nil)

	s.env.OnWorkflow(RunSiteBackupWorkflow, mock.Anything, "backup-1").Return(nil)
	s.env.OnWorkflow(RunSiteBackupWorkflow, mock.Anything, "backup-2").Return(nil)

	s.env.OnActivity("TouchBackupSchedule", mock.Anything, "sched-1").Return(nil)
	s.env.OnActivity("TouchBackupSchedule", mock.Anything, "sched-2").Return(nil)

	s.env.OnActivity("RecordSweepResult", mock.Anything, activity.RecordSweepResultParams{
		Sweep: "scheduled_backups", Processed: 2, Skipped: 4,
	}).Return(nil)

	s.env.ExecuteWorkflow(ScheduledBackupsWorkflow)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *ScheduledBackupsWorkflowTestSuite) TestBackupFailure_DoesNotStampSchedule() {
	start := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)
	s.env.SetStartTime(start)

	items := []activity.ScheduleItem{
		{Schedule: model.BackupSchedule{ID: "sched-1", SiteID: "site-1", Frequency: model.FrequencyDaily,
			BackupType: model.BackupTypeFull, IsActive: true}, SiteName: "a", SiteStatus: model.SiteStatusActive},
	}
	s.env.OnActivity("ListActiveBackupSchedules", mock.Anything).Return(items, nil)
	s.env.OnActivity("CreateScheduledBackup", mock.Anything, mock.Anything).Return("backup-1", nil)
	s.env.OnWorkflow(RunSiteBackupWorkflow, mock.Anything, "backup-1").Return(fmt.Errorf("backup failed"))
	s.env.OnActivity("RecordSweepResult", mock.Anything, activity.RecordSweepResultParams{
		Sweep: "scheduled_backups", Failed: 1,
	}).Return(nil)

	s.env.ExecuteWorkflow(ScheduledBackupsWorkflow)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.env.AssertNotCalled(s.T(), "TouchBackupSchedule", mock.Anything, mock.Anything)
}

func TestScheduledBackupsWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(ScheduledBackupsWorkflowTestSuite))
}

func TestScheduleDue(t *testing.T) {
	monday := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)
	firstOfMonth := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		schedule model.BackupSchedule
		now      time.Time
		want     bool
	}{
		{"daily always due", model.BackupSchedule{Frequency: model.FrequencyDaily}, monday, true},
		{"weekly on matching weekday", model.BackupSchedule{Frequency: model.FrequencyWeekly, Weekday: 1}, monday, true},
		{"weekly on other weekday", model.BackupSchedule{Frequency: model.FrequencyWeekly, Weekday: 4}, monday, false},
		{"monthly on the first", model.BackupSchedule{Frequency: model.FrequencyMonthly}, firstOfMonth, true},
		{"monthly mid-month", model.BackupSchedule{Frequency: model.FrequencyMonthly}, monday, false},
		{"unknown frequency", model.BackupSchedule{Frequency: "hourly"}, monday, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, scheduleDue(tt.schedule, tt.now))
		})
	}
}
