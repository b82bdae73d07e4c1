package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

type PaymentReminderWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *PaymentReminderWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	registerActivities(s.env)
}

func (s *PaymentReminderWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *PaymentReminderWorkflowTestSuite) TestRemindersDisabled_NoSweep() {
	s.env.OnActivity("GetSuspensionPolicy", mock.Anything).Return(model.SuspensionPolicy{
		Enabled:       true,
		SendReminders: false,
	}, nil)

	s.env.ExecuteWorkflow(PaymentReminderWorkflow)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.env.AssertNotCalled(s.T(), "ListSitesExpiringBefore", mock.Anything, mock.Anything)
}

func (s *PaymentReminderWorkflowTestSuite) TestThresholdMatchAndDedupe() {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	s.env.SetStartTime(start)

	s.env.OnActivity("GetSuspensionPolicy", mock.Anything).Return(model.DefaultSuspensionPolicy(), nil)

	sites := []activity.ExpiringSite{
		// Exactly three days out, reminder due.
		{SiteID: "site-1", SiteName: "a.example.com", ClientName: "Acme", Email: "a@acme.test",
			ExpiresAt: start.Add(3 * 24 * time.Hour)},
		// Five days out, no threshold matches.
		{SiteID: "site-2", SiteName: "b.example.com", ClientName: "Beta", Email: "b@beta.test",
			ExpiresAt: start.Add(5 * 24 * time.Hour)},
		// One day out but already claimed earlier today.
		{SiteID: "site-3", SiteName: "c.example.com", ClientName: "Gamma", Email: "c@gamma.test",
			ExpiresAt: start.Add(24 * time.Hour)},
	}
	s.env.OnActivity("ListSitesExpiringBefore", mock.Anything, mock.Anything).Return(sites, nil)

	s.env.OnActivity("RecordReminderDispatch", mock.Anything, mock.MatchedBy(func(p activity.RecordReminderDispatchParams) bool {
		return p.SiteID == "site-1" && p.ThresholdDays == 3
	})).Return(true, nil)
	s.env.OnActivity("RecordReminderDispatch", mock.Anything, mock.MatchedBy(func(p activity.RecordReminderDispatchParams) bool {
		return p.SiteID == "site-3" && p.ThresholdDays == 1
	})).Return(false, nil)

	s.env.OnActivity("EnqueueNotification", mock.Anything, mock.MatchedBy(func(p activity.EnqueueNotificationParams) bool {
		return p.Kind == model.NotifySubscriptionExpiring &&
			p.Recipient == "a@acme.test" &&
			p.Payload["days_left"] == "3"
	})).Return(nil).Once()

	s.env.OnActivity("RecordSweepResult", mock.Anything, activity.RecordSweepResultParams{
		Sweep: "payment_reminders", Processed: 1, Skipped: 2,
	}).Return(nil)

	s.env.ExecuteWorkflow(PaymentReminderWorkflow)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func TestPaymentReminderWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentReminderWorkflowTestSuite))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      int
	}{
		{"exactly seven days", now.Add(7 * 24 * time.Hour), 7},
		{"six and a half days rounds up", now.Add(6*24*time.Hour + 12*time.Hour), 7},
		{"tomorrow morning", now.Add(20 * time.Hour), 1},
		{"later today", now.Add(2 * time.Hour), 1},
		{"expired this morning", now.Add(-2 * time.Hour), 0},
		{"expired two days ago", now.Add(-2 * 24 * time.Hour), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, daysUntil(now, tt.expiresAt))
		})
	}
}
