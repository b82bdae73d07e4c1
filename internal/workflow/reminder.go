package workflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

// PaymentReminderWorkflow is the daily sweep that queues expiry reminders for
// active sites approaching their subscription end. Each (site, days-left,
// day) combination is claimed in the dispatch ledger before the notification
// is queued, so a rerun of the sweep never sends the same reminder twice.
func PaymentReminderWorkflow(ctx workflow.Context) error {
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
	if !policy.Enabled || !policy.SendReminders || len(policy.ReminderDays) == 0 {
		logger.Info("payment reminders disabled, skipping sweep")
		return nil
	}

	maxDays := policy.ReminderDays[0]
	for _, d := range policy.ReminderDays {
		if d > maxDays {
			maxDays = d
		}
	}

	now := workflow.Now(ctx)
	horizon := now.Add(time.Duration(maxDays+1) * 24 * time.Hour)

	var sites []activity.ExpiringSite
	if err := workflow.ExecuteActivity(ctx, "ListSitesExpiringBefore", horizon).Get(ctx, &sites); err != nil {
		return err
	}

	processed, skipped := 0, 0
	for _, site := range sites {
		daysLeft := daysUntil(now, site.ExpiresAt)
		if daysLeft < 0 || !containsInt(policy.ReminderDays, daysLeft) {
			skipped++
			continue
		}

		var claimed bool
		err := workflow.ExecuteActivity(ctx, "RecordReminderDispatch", activity.RecordReminderDispatchParams{
			SiteID:        site.SiteID,
			ThresholdDays: daysLeft,
			SentOn:        now,
		}).Get(ctx, &claimed)
		if err != nil {
			logger.Error("failed to claim reminder dispatch", "siteID", site.SiteID, "error", err)
			skipped++
			continue
		}
		if !claimed {
			// Already sent for this threshold today.
			skipped++
			continue
		}

		_ = workflow.ExecuteActivity(ctx, "EnqueueNotification", activity.EnqueueNotificationParams{
			Kind:      model.NotifySubscriptionExpiring,
			Recipient: site.Email,
			Payload: map[string]string{
				"site_name":   site.SiteName,
				"client_name": site.ClientName,
				"days_left":   fmt.Sprintf("%d", daysLeft),
				"expiry_date": site.ExpiresAt.Format("2006-01-02"),
			},
		}).Get(ctx, nil)
		processed++
	}

	return workflow.ExecuteActivity(ctx, "RecordSweepResult", activity.RecordSweepResultParams{
		Sweep:     "payment_reminders",
		Processed: processed,
		Skipped:   skipped,
	}).Get(ctx, nil)
}

// daysUntil counts whole days from now until the expiry, rounding up so a
// subscription expiring tomorrow morning still counts as one day left.
func daysUntil(now, expiresAt time.Time) int {
	d := expiresAt.Sub(now)
	if d < 0 {
		if d > -24*time.Hour {
			return 0
		}
		return -1
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

func containsInt(xs []int, n int) bool {
	for _, x := range xs {
		if x == n {
			return true
		}
	}
	return false
}
