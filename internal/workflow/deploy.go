package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
	"github.com/zxrrcpandey/rahulops/internal/platform"
)

// DeploySiteWorkflow runs the provisioning pipeline for one deployment job.
// Remote steps run against the site's host over SSH; progress checkpoints are
// written to the job as the pipeline advances.
func DeploySiteWorkflow(ctx workflow.Context, jobID string) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    3,
			InitialInterval:    1 * time.Second,
			MaximumInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var dc activity.DeploymentContext
	if err := workflow.ExecuteActivity(ctx, "GetDeploymentContext", jobID).Get(ctx, &dc); err != nil {
		_ = workflow.ExecuteActivity(ctx, "FailJob", activity.FailJobParams{
			JobID:   jobID,
			Message: err.Error(),
		}).Get(ctx, nil)
		return err
	}

	if err := workflow.ExecuteActivity(ctx, "MarkJobRunning", jobID).Get(ctx, nil); err != nil {
		return err
	}
	if err := workflow.ExecuteActivity(ctx, "UpdateSiteStatus", activity.UpdateSiteStatusParams{
		SiteID: dc.Site.ID,
		Status: model.SiteStatusDeploying,
	}).Get(ctx, nil); err != nil {
		return err
	}

	// Issue the Administrator password here rather than inside the activity
	// so it survives retries and can be sent to the client afterwards.
	var adminPassword string
	if err := workflow.SideEffect(ctx, func(ctx workflow.Context) interface{} {
		return platform.NewID()
	}).Get(&adminPassword); err != nil {
		return err
	}

	err := runPipeline(ctx, jobID, deploySteps(dc, adminPassword))
	if err != nil {
		if temporal.IsCanceledError(err) || ctx.Err() != nil {
			return cancelDeployment(ctx, ao, dc)
		}
		return failDeployment(ctx, dc, err)
	}

	if err := workflow.ExecuteActivity(ctx, "CompleteJob", jobID).Get(ctx, nil); err != nil {
		return err
	}
	if err := workflow.ExecuteActivity(ctx, "MarkSiteDeployed", dc.Site.ID).Get(ctx, nil); err != nil {
		return err
	}

	_ = workflow.ExecuteActivity(ctx, "EnqueueNotification", activity.EnqueueNotificationParams{
		Kind:      model.NotifyDeploymentSuccess,
		Recipient: dc.Client.Email,
		Payload: map[string]string{
			"site_name":      dc.Site.Name,
			"client_name":    dc.Client.Name,
			"admin_user":     "Administrator",
			"admin_password": adminPassword,
		},
	}).Get(ctx, nil)
	_ = workflow.ExecuteActivity(ctx, "RecordActivity", activity.RecordActivityParams{
		EntityType: "site",
		EntityID:   dc.Site.ID,
		Action:     "deployed",
		Detail:     map[string]string{"job_id": jobID, "host": dc.Host.Name},
	}).Get(ctx, nil)

	return nil
}

// deploySteps builds the pipeline for a site. Application installs and
// certificate issuance are tolerated so a flaky app or a DNS hiccup does not
// sink the whole deployment.
func deploySteps(dc activity.DeploymentContext, adminPassword string) []pipelineStep {
	steps := []pipelineStep{
		{
			name:       "create-site",
			policy:     stepAbort,
			checkpoint: 10,
			run: func(ctx workflow.Context) error {
				return workflow.ExecuteActivity(ctx, "CreateSite", activity.CreateSiteParams{
					Host:          dc.Host,
					SiteName:      dc.Site.Name,
					AdminPassword: adminPassword,
				}).Get(ctx, nil)
			},
		},
		{
			name:       "install-apps",
			policy:     stepTolerate,
			checkpoint: 30,
			run: func(ctx workflow.Context) error {
				for _, app := range dc.Site.Apps {
					err := workflow.ExecuteActivity(ctx, "InstallApp", activity.InstallAppParams{
						Host:     dc.Host,
						SiteName: dc.Site.Name,
						App:      app,
					}).Get(ctx, nil)
					if err != nil {
						workflow.GetLogger(ctx).Warn("app install failed",
							"site", dc.Site.Name, "app", app, "error", err)
					}
				}
				return nil
			},
		},
		{
			name:       "enable-scheduler",
			policy:     stepAbort,
			checkpoint: 60,
			run: func(ctx workflow.Context) error {
				err := workflow.ExecuteActivity(ctx, "EnableScheduler", activity.SiteCommandParams{
					Host:     dc.Host,
					SiteName: dc.Site.Name,
				}).Get(ctx, nil)
				if err != nil {
					return err
				}
				on := true
				return workflow.ExecuteActivity(ctx, "SetSiteFlags", activity.SetSiteFlagsParams{
					SiteID:           dc.Site.ID,
					SchedulerEnabled: &on,
				}).Get(ctx, nil)
			},
		},
		{
			name:       "configure-webserver",
			policy:     stepAbort,
			checkpoint: 70,
			run: func(ctx workflow.Context) error {
				return workflow.ExecuteActivity(ctx, "ConfigureWebserver", dc.Host).Get(ctx, nil)
			},
		},
	}

	if dc.Site.SSLEnabled {
		steps = append(steps, pipelineStep{
			name:       "issue-certificate",
			policy:     stepTolerate,
			checkpoint: 85,
			run: func(ctx workflow.Context) error {
				err := workflow.ExecuteActivity(ctx, "IssueCertificate", activity.SiteCommandParams{
					Host:     dc.Host,
					SiteName: dc.Site.Name,
				}).Get(ctx, nil)
				if err != nil {
					// Record that the site ended up without a certificate.
					off := false
					_ = workflow.ExecuteActivity(ctx, "SetSiteFlags", activity.SetSiteFlagsParams{
						SiteID:     dc.Site.ID,
						SSLEnabled: &off,
					}).Get(ctx, nil)
				}
				return err
			},
		})
	}

	steps = append(steps, pipelineStep{
		name:       "restart-services",
		policy:     stepAbort,
		checkpoint: 95,
		run: func(ctx workflow.Context) error {
			return workflow.ExecuteActivity(ctx, "RestartServices", dc.Host).Get(ctx, nil)
		},
	})

	return steps
}

// failDeployment records the failure on the job and the site and notifies the
// owning client. The original pipeline error is returned.
func failDeployment(ctx workflow.Context, dc activity.DeploymentContext, pipelineErr error) error {
	_ = workflow.ExecuteActivity(ctx, "FailJob", activity.FailJobParams{
		JobID:   dc.Job.ID,
		Message: pipelineErr.Error(),
	}).Get(ctx, nil)
	_ = workflow.ExecuteActivity(ctx, "UpdateSiteStatus", activity.UpdateSiteStatusParams{
		SiteID: dc.Site.ID,
		Status: model.SiteStatusFailed,
	}).Get(ctx, nil)
	_ = workflow.ExecuteActivity(ctx, "EnqueueNotification", activity.EnqueueNotificationParams{
		Kind:      model.NotifyDeploymentFailed,
		Recipient: dc.Client.Email,
		Payload: map[string]string{
			"site_name": dc.Site.Name,
			"step":      failedStep(pipelineErr),
			"error":     pipelineErr.Error(),
		},
	}).Get(ctx, nil)
	_ = workflow.ExecuteActivity(ctx, "RecordActivity", activity.RecordActivityParams{
		EntityType: "site",
		EntityID:   dc.Site.ID,
		Action:     "deployment_failed",
		Detail:     map[string]string{"job_id": dc.Job.ID, "step": failedStep(pipelineErr)},
	}).Get(ctx, nil)
	return pipelineErr
}

// cancelDeployment runs the cancel bookkeeping on a disconnected context so
// it still executes after the workflow context itself was cancelled. The site
// is marked failed since it was left mid-provision.
func cancelDeployment(ctx workflow.Context, ao workflow.ActivityOptions, dc activity.DeploymentContext) error {
	dctx, _ := workflow.NewDisconnectedContext(ctx)
	dctx = workflow.WithActivityOptions(dctx, ao)

	_ = workflow.ExecuteActivity(dctx, "CancelJob", dc.Job.ID).Get(dctx, nil)
	_ = workflow.ExecuteActivity(dctx, "UpdateSiteStatus", activity.UpdateSiteStatusParams{
		SiteID: dc.Site.ID,
		Status: model.SiteStatusFailed,
	}).Get(dctx, nil)
	_ = workflow.ExecuteActivity(dctx, "RecordActivity", activity.RecordActivityParams{
		EntityType: "site",
		EntityID:   dc.Site.ID,
		Action:     "deployment_cancelled",
		Detail:     map[string]string{"job_id": dc.Job.ID},
	}).Get(dctx, nil)

	return temporal.NewCanceledError("deployment cancelled")
}
