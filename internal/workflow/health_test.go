package workflow

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

type HostHealthWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *HostHealthWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	registerActivities(s.env)
}

func (s *HostHealthWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *HostHealthWorkflowTestSuite) TestSweep_ClassifiesAndAlerts() {
	healthy := testHost()
	critical := testHost()
	critical.ID = "test-host-2"
	critical.Name = "h2.example.com"
	unreachable := testHost()
	unreachable.ID = "test-host-3"
	unreachable.Name = "h3.example.com"

	s.env.OnActivity("ListActiveHosts", mock.Anything).
		Return([]model.Host{healthy, critical, unreachable}, nil)

	s.env.OnActivity("CollectHostMetrics", mock.Anything, mock.MatchedBy(func(h model.Host) bool {
		return h.ID == "test-host-1"
	})).Return(&activity.ProbeResult{
		Reachable: true,
		Metrics:   model.HostMetrics{CPU: 12.5, RAM: 40.0, Disk: 55.0, Uptime: "up 3 weeks"},
	}, nil)
	s.env.OnActivity("CollectHostMetrics", mock.Anything, mock.MatchedBy(func(h model.Host) bool {
		return h.ID == "test-host-2"
	})).Return(&activity.ProbeResult{
		Reachable: true,
		Metrics:   model.HostMetrics{CPU: 95.0, RAM: 60.0, Disk: 70.0, Uptime: "up 5 days"},
	}, nil)
	s.env.OnActivity("CollectHostMetrics", mock.Anything, mock.MatchedBy(func(h model.Host) bool {
		return h.ID == "test-host-3"
	})).Return(&activity.ProbeResult{Reachable: false}, nil)

	s.env.OnActivity("UpdateHostHealth", mock.Anything, mock.MatchedBy(func(p activity.UpdateHostHealthParams) bool {
		return p.HostID == "test-host-1" && p.Health == model.HealthHealthy && p.CPU != nil
	})).Return(nil)
	s.env.OnActivity("UpdateHostHealth", mock.Anything, mock.MatchedBy(func(p activity.UpdateHostHealthParams) bool {
		return p.HostID == "test-host-2" && p.Health == model.HealthCritical
	})).Return(nil)
	s.env.OnActivity("UpdateHostHealth", mock.Anything, mock.MatchedBy(func(p activity.UpdateHostHealthParams) bool {
		return p.HostID == "test-host-3" && p.Health == model.HealthOffline && p.CPU == nil
	})).Return(nil)

	s.env.OnActivity("EnqueueNotification", mock.Anything, mock.MatchedBy(func(p activity.EnqueueNotificationParams) bool {
		return p.Kind == model.NotifyHostAlert && p.Payload["host_name"] == "h2.example.com" &&
			p.Payload["status"] == model.HealthCritical
	})).Return(nil).Once()
	s.env.OnActivity("EnqueueNotification", mock.Anything, mock.MatchedBy(func(p activity.EnqueueNotificationParams) bool {
		return p.Kind == model.NotifyHostAlert && p.Payload["host_name"] == "h3.example.com" &&
			p.Payload["status"] == model.HealthOffline
	})).Return(nil).Once()

	s.env.OnActivity("RecordSweepResult", mock.Anything, activity.RecordSweepResultParams{
		Sweep: "host_health", Processed: 3,
	}).Return(nil)

	s.env.ExecuteWorkflow(HostHealthWorkflow, "ops@example.com")
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *HostHealthWorkflowTestSuite) TestNoRecipient_NoAlerts() {
	critical := testHost()

	s.env.OnActivity("ListActiveHosts", mock.Anything).Return([]model.Host{critical}, nil)
	s.env.OnActivity("CollectHostMetrics", mock.Anything, mock.Anything).Return(&activity.ProbeResult{
		Reachable: true,
		Metrics:   model.HostMetrics{CPU: 99.0, RAM: 50.0, Disk: 50.0, Uptime: "up 1 day"},
	}, nil)
	s.env.OnActivity("UpdateHostHealth", mock.Anything, mock.Anything).Return(nil)
	s.env.OnActivity("RecordSweepResult", mock.Anything, mock.Anything).Return(nil)

	s.env.ExecuteWorkflow(HostHealthWorkflow, "")
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.env.AssertNotCalled(s.T(), "EnqueueNotification", mock.Anything, mock.Anything)
}

func TestHostHealthWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(HostHealthWorkflowTestSuite))
}

func TestClassifyHealth(t *testing.T) {
	tests := []struct {
		name  string
		probe activity.ProbeResult
		want  string
	}{
		{"unreachable", activity.ProbeResult{Reachable: false}, model.HealthOffline},
		{"all quiet", activity.ProbeResult{Reachable: true,
			Metrics: model.HostMetrics{CPU: 10, RAM: 20, Disk: 30}}, model.HealthHealthy},
		{"cpu warning", activity.ProbeResult{Reachable: true,
			Metrics: model.HostMetrics{CPU: 75, RAM: 20, Disk: 30}}, model.HealthWarning},
		{"ram warning", activity.ProbeResult{Reachable: true,
			Metrics: model.HostMetrics{CPU: 10, RAM: 72, Disk: 30}}, model.HealthWarning},
		{"disk warning at lower bar", activity.ProbeResult{Reachable: true,
			Metrics: model.HostMetrics{CPU: 10, RAM: 20, Disk: 81}}, model.HealthWarning},
		{"disk below warning bar", activity.ProbeResult{Reachable: true,
			Metrics: model.HostMetrics{CPU: 10, RAM: 20, Disk: 79}}, model.HealthHealthy},
		{"cpu critical", activity.ProbeResult{Reachable: true,
			Metrics: model.HostMetrics{CPU: 91, RAM: 20, Disk: 30}}, model.HealthCritical},
		{"disk critical", activity.ProbeResult{Reachable: true,
			Metrics: model.HostMetrics{CPU: 10, RAM: 20, Disk: 95}}, model.HealthCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, classifyHealth(tt.probe))
		})
	}
}
