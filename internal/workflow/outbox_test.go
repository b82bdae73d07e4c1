package workflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

type NotificationOutboxWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *NotificationOutboxWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	registerActivities(s.env)
}

func (s *NotificationOutboxWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *NotificationOutboxWorkflowTestSuite) TestDrain_MixedOutcomes() {
	pending := []model.Notification{
		{ID: "notif-1", Kind: model.NotifyDeploymentSuccess, Recipient: "a@acme.test",
			Payload: json.RawMessage(`{"site_name":"a.example.com"}`), Status: model.NotificationPending},
		{ID: "notif-2", Kind: model.NotifySiteSuspended, Recipient: "bad-address",
			Payload: json.RawMessage(`{"site_name":"b.example.com"}`), Status: model.NotificationPending},
	}
	s.env.OnActivity("ListPendingNotifications", mock.Anything, outboxBatchSize).Return(pending, nil)

	s.env.OnActivity("SendEmail", mock.Anything, mock.MatchedBy(func(p activity.SendEmailParams) bool {
		return p.Recipient == "a@acme.test"
	})).Return(nil)
	s.env.OnActivity("SendEmail", mock.Anything, mock.MatchedBy(func(p activity.SendEmailParams) bool {
		return p.Recipient == "bad-address"
	})).Return(temporal.NewNonRetryableApplicationError("rejected recipient", "CLIENT_ERROR", nil))

	s.env.OnActivity("MarkNotificationSent", mock.Anything, "notif-1").Return(nil)
	s.env.OnActivity("MarkNotificationFailed", mock.Anything, mock.MatchedBy(func(p activity.MarkNotificationFailedParams) bool {
		return p.ID == "notif-2" && p.MaxTries == notificationMaxTries
	})).Return(nil)

	s.env.ExecuteWorkflow(NotificationOutboxWorkflow)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *NotificationOutboxWorkflowTestSuite) TestMalformedPayload_ParkedImmediately() {
	// An array is valid JSON but not the flat string map deliveries expect.
	pending := []model.Notification{
		{ID: "notif-1", Kind: model.NotifyDeploymentSuccess, Recipient: "a@acme.test",
			Payload: json.RawMessage(`["oops"]`), Status: model.NotificationPending},
	}
	s.env.OnActivity("ListPendingNotifications", mock.Anything, outboxBatchSize).Return(pending, nil)
	s.env.OnActivity("MarkNotificationFailed", mock.Anything, mock.MatchedBy(func(p activity.MarkNotificationFailedParams) bool {
		return p.ID == "notif-1" && p.MaxTries == 1
	})).Return(nil)

	s.env.ExecuteWorkflow(NotificationOutboxWorkflow)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.env.AssertNotCalled(s.T(), "SendEmail", mock.Anything, mock.Anything)
}

func TestNotificationOutboxWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationOutboxWorkflowTestSuite))
}
