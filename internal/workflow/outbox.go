package workflow

import (
	"encoding/json"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

const (
	// outboxBatchSize caps how many rows one drain run picks up.
	outboxBatchSize = 50
	// notificationMaxTries is how many delivery attempts a row gets before
	// it is parked as failed.
	notificationMaxTries = 5
)

// NotificationOutboxWorkflow drains the notification outbox. Delivery
// failures bump the row's attempt counter and leave it pending for the next
// run, up to the attempt limit.
func NotificationOutboxWorkflow(ctx workflow.Context) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 1 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    3,
			InitialInterval:    1 * time.Second,
			MaximumInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	var pending []model.Notification
	if err := workflow.ExecuteActivity(ctx, "ListPendingNotifications", outboxBatchSize).Get(ctx, &pending); err != nil {
		return err
	}

	for _, n := range pending {
		var payload map[string]string
		if err := json.Unmarshal(n.Payload, &payload); err != nil {
			_ = workflow.ExecuteActivity(ctx, "MarkNotificationFailed", activity.MarkNotificationFailedParams{
				ID:       n.ID,
				Message:  "malformed payload: " + err.Error(),
				MaxTries: 1,
			}).Get(ctx, nil)
			continue
		}

		err := workflow.ExecuteActivity(ctx, "SendEmail", activity.SendEmailParams{
			Kind:      n.Kind,
			Recipient: n.Recipient,
			Payload:   payload,
		}).Get(ctx, nil)
		if err != nil {
			logger.Warn("notification delivery failed", "id", n.ID, "kind", n.Kind, "error", err)
			_ = workflow.ExecuteActivity(ctx, "MarkNotificationFailed", activity.MarkNotificationFailedParams{
				ID:       n.ID,
				Message:  err.Error(),
				MaxTries: notificationMaxTries,
			}).Get(ctx, nil)
			continue
		}

		if err := workflow.ExecuteActivity(ctx, "MarkNotificationSent", n.ID).Get(ctx, nil); err != nil {
			logger.Error("failed to mark notification sent", "id", n.ID, "error", err)
		}
	}

	return nil
}
