package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

// defaultHostApps is what a freshly provisioned host gets preinstalled so
// sites can be deployed onto it immediately.
var defaultHostApps = []string{"erpnext"}

// SetupHostWorkflow provisions the application stack on a fresh machine. The
// setup script is not safe to rerun blindly, so the activity gets exactly one
// attempt; a failed setup returns the host to pending for the operator to
// retry.
func SetupHostWorkflow(ctx workflow.Context, hostID string) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    3,
			InitialInterval:    1 * time.Second,
			MaximumInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var host model.Host
	if err := workflow.ExecuteActivity(ctx, "GetHostByID", hostID).Get(ctx, &host); err != nil {
		_ = workflow.ExecuteActivity(ctx, "MarkHostSetupFailed", hostID).Get(ctx, nil)
		return err
	}

	setupCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 60 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})
	err := workflow.ExecuteActivity(setupCtx, "SetupHost", activity.SetupHostParams{
		Host: host,
		Apps: defaultHostApps,
	}).Get(ctx, nil)
	if err != nil {
		_ = workflow.ExecuteActivity(ctx, "MarkHostSetupFailed", hostID).Get(ctx, nil)
		_ = workflow.ExecuteActivity(ctx, "RecordActivity", activity.RecordActivityParams{
			EntityType: "host",
			EntityID:   hostID,
			Action:     "setup_failed",
			Detail:     map[string]string{"error": err.Error()},
		}).Get(ctx, nil)
		return err
	}

	if err := workflow.ExecuteActivity(ctx, "MarkHostSetupComplete", hostID).Get(ctx, nil); err != nil {
		return err
	}
	return workflow.ExecuteActivity(ctx, "RecordActivity", activity.RecordActivityParams{
		EntityType: "host",
		EntityID:   hostID,
		Action:     "setup_completed",
		Detail:     map[string]string{"name": host.Name},
	}).Get(ctx, nil)
}
