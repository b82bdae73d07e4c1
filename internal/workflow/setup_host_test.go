package workflow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/zxrrcpandey/rahulops/internal/activity"
)

type SetupHostWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *SetupHostWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	registerActivities(s.env)
}

func (s *SetupHostWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *SetupHostWorkflowTestSuite) TestSuccess() {
	host := testHost()

	s.env.OnActivity("GetHostByID", mock.Anything, host.ID).Return(&host, nil)
	s.env.OnActivity("SetupHost", mock.Anything, activity.SetupHostParams{
		Host: host,
		Apps: defaultHostApps,
	}).Return(nil)
	s.env.OnActivity("MarkHostSetupComplete", mock.Anything, host.ID).Return(nil)
	s.env.OnActivity("RecordActivity", mock.Anything, mock.MatchedBy(func(p activity.RecordActivityParams) bool {
		return p.EntityType == "host" && p.Action == "setup_completed"
	})).Return(nil)

	s.env.ExecuteWorkflow(SetupHostWorkflow, host.ID)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *SetupHostWorkflowTestSuite) TestScriptFails_HostBackToPending() {
	host := testHost()

	s.env.OnActivity("GetHostByID", mock.Anything, host.ID).Return(&host, nil)
	s.env.OnActivity("SetupHost", mock.Anything, mock.Anything).
		Return(fmt.Errorf("command failed on h1.example.com"))
	s.env.OnActivity("MarkHostSetupFailed", mock.Anything, host.ID).Return(nil)
	s.env.OnActivity("RecordActivity", mock.Anything, mock.MatchedBy(func(p activity.RecordActivityParams) bool {
		return p.EntityType == "host" && p.Action == "setup_failed"
	})).Return(nil)

	s.env.ExecuteWorkflow(SetupHostWorkflow, host.ID)
	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

func TestSetupHostWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(SetupHostWorkflowTestSuite))
}
