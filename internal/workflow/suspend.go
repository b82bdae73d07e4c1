package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

// SuspendSiteWorkflow takes a site offline for non-payment or by operator
// request. The host-side commands run first; the record only flips to
// suspended once the site is actually dark.
func SuspendSiteWorkflow(ctx workflow.Context, req model.SuspendRequest) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    3,
			InitialInterval:    1 * time.Second,
			MaximumInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var sc activity.SiteContext
	if err := workflow.ExecuteActivity(ctx, "GetSiteContext", req.SiteID).Get(ctx, &sc); err != nil {
		return err
	}

	if err := workflow.ExecuteActivity(ctx, "SuspendSiteOnHost", activity.SiteCommandParams{
		Host:     sc.Host,
		SiteName: sc.Site.Name,
	}).Get(ctx, nil); err != nil {
		return err
	}

	if err := workflow.ExecuteActivity(ctx, "SuspendSiteRecord", activity.SuspendSiteRecordParams{
		SiteID: req.SiteID,
		Reason: req.Reason,
	}).Get(ctx, nil); err != nil {
		return err
	}

	_ = workflow.ExecuteActivity(ctx, "EnqueueNotification", activity.EnqueueNotificationParams{
		Kind:      model.NotifySiteSuspended,
		Recipient: sc.Client.Email,
		Payload: map[string]string{
			"site_name":   sc.Site.Name,
			"client_name": sc.Client.Name,
			"reason":      req.Reason,
		},
	}).Get(ctx, nil)
	_ = workflow.ExecuteActivity(ctx, "RecordActivity", activity.RecordActivityParams{
		EntityType: "site",
		EntityID:   req.SiteID,
		Action:     "suspended",
		Detail:     map[string]string{"reason": req.Reason},
	}).Get(ctx, nil)

	return nil
}

// AutoSuspendWorkflow is the daily sweep that suspends active sites whose
// subscription expired past the grace period. Each site is suspended through
// its own child workflow so one broken host cannot stall the rest.
func AutoSuspendWorkflow(ctx workflow.Context) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	var policy model.SuspensionPolicy
	if err := workflow.ExecuteActivity(ctx, "GetSuspensionPolicy").Get(ctx, &policy); err != nil {
		return err
	}
	if !policy.Enabled {
		logger.Info("auto-suspension disabled, skipping sweep")
		return nil
	}

	cutoff := workflow.Now(ctx).Add(-time.Duration(policy.GracePeriodDays) * 24 * time.Hour)

	var siteIDs []string
	if err := workflow.ExecuteActivity(ctx, "ListSitesExpiredBefore", cutoff).Get(ctx, &siteIDs); err != nil {
		return err
	}
	logger.Info("found expired sites to suspend", "count", len(siteIDs))

	processed, failed := 0, 0
	for _, siteID := range siteIDs {
		childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID: "suspend-site-" + siteID,
		})
		err := workflow.ExecuteChildWorkflow(childCtx, SuspendSiteWorkflow, model.SuspendRequest{
			SiteID: siteID,
			Reason: "subscription expired",
		}).Get(ctx, nil)
		if err != nil {
			logger.Error("failed to suspend site", "siteID", siteID, "error", err)
			failed++
			// Continue suspending other sites even if one fails.
			continue
		}
		processed++
	}

	return workflow.ExecuteActivity(ctx, "RecordSweepResult", activity.RecordSweepResultParams{
		Sweep:     "auto_suspend",
		Processed: processed,
		Failed:    failed,
	}).Get(ctx, nil)
}
