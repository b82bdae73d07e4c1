package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

// ReactivateSiteWorkflow brings a suspended site back online with a fresh
// subscription expiry.
func ReactivateSiteWorkflow(ctx workflow.Context, req model.ReactivateRequest) error {
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

	if err := workflow.ExecuteActivity(ctx, "ResumeSiteOnHost", activity.SiteCommandParams{
		Host:     sc.Host,
		SiteName: sc.Site.Name,
	}).Get(ctx, nil); err != nil {
		return err
	}

	if err := workflow.ExecuteActivity(ctx, "ReactivateSiteRecord", activity.ReactivateSiteRecordParams{
		SiteID:    req.SiteID,
		ExpiresAt: req.ExpiresAt,
	}).Get(ctx, nil); err != nil {
		return err
	}

	_ = workflow.ExecuteActivity(ctx, "EnqueueNotification", activity.EnqueueNotificationParams{
		Kind:      model.NotifySiteReactivated,
		Recipient: sc.Client.Email,
		Payload: map[string]string{
			"site_name":   sc.Site.Name,
			"client_name": sc.Client.Name,
		},
	}).Get(ctx, nil)
	_ = workflow.ExecuteActivity(ctx, "RecordActivity", activity.RecordActivityParams{
		EntityType: "site",
		EntityID:   req.SiteID,
		Action:     "reactivated",
		Detail:     map[string]string{"expires_at": req.ExpiresAt.Format(time.RFC3339)},
	}).Get(ctx, nil)

	return nil
}
