package workflow

import (
	"go.temporal.io/sdk/testsuite"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

// registerActivities registers activity structs with the test workflow
// environment so that parameter and return types can be deserialized correctly
// by the Temporal test framework. In unit tests, all activities are mocked via
// OnActivity, but the framework still needs the type information for proper
// serialization/deserialization of activity parameters and return values.
func registerActivities(env *testsuite.TestWorkflowEnvironment) {
	env.RegisterActivity(&activity.CoreDB{})
	env.RegisterActivity(&activity.Agent{})
	env.RegisterActivity(&activity.Archive{})
	env.RegisterActivity(&activity.Mailer{})
}

func testHost() model.Host {
	return model.Host{
		ID:           "test-host-1",
		Name:         "h1.example.com",
		IPAddress:    "10.0.0.5",
		SSHPort:      22,
		SSHUser:      "frappe",
		AppRoot:      "/home/frappe/frappe-bench",
		MaxSites:     25,
		Status:       model.HostStatusActive,
		HealthStatus: model.HealthHealthy,
	}
}

func testClient() model.Client {
	return model.Client{
		ID:    "test-client-1",
		Name:  "Acme Corp",
		Email: "owner@acme.test",
	}
}

func testSite() model.Site {
	return model.Site{
		ID:         "test-site-1",
		HostID:     "test-host-1",
		ClientID:   "test-client-1",
		Name:       "acme.example.com",
		Apps:       []string{"erpnext"},
		Status:     model.SiteStatusPending,
		SSLEnabled: true,
	}
}

func testDeploymentContext() *activity.DeploymentContext {
	return &activity.DeploymentContext{
		Job: model.Job{
			ID:      "test-job-1",
			SiteID:  "test-site-1",
			JobType: model.JobTypeDeploy,
			Status:  model.JobStatusQueued,
		},
		Site:   testSite(),
		Host:   testHost(),
		Client: testClient(),
	}
}

func testSiteContext() *activity.SiteContext {
	return &activity.SiteContext{
		Site:   testSite(),
		Host:   testHost(),
		Client: testClient(),
	}
}
