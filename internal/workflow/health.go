package workflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/zxrrcpandey/rahulops/internal/activity"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

// HostHealthWorkflow probes every active host and records its resource usage
// and health classification. An unreachable host is marked offline rather
// than failing the sweep. When alertRecipient is set, hosts newly entering
// critical or offline get an alert notification.
func HostHealthWorkflow(ctx workflow.Context, alertRecipient string) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	var hosts []model.Host
	if err := workflow.ExecuteActivity(ctx, "ListActiveHosts").Get(ctx, &hosts); err != nil {
		return err
	}

	processed, failed := 0, 0
	for _, host := range hosts {
		var probe activity.ProbeResult
		err := workflow.ExecuteActivity(ctx, "CollectHostMetrics", host).Get(ctx, &probe)
		if err != nil {
			logger.Error("health probe failed", "hostID", host.ID, "error", err)
			failed++
			continue
		}

		health := classifyHealth(probe)

		params := activity.UpdateHostHealthParams{
			HostID: host.ID,
			Health: health,
		}
		if probe.Reachable {
			m := probe.Metrics
			params.CPU = &m.CPU
			params.RAM = &m.RAM
			params.Disk = &m.Disk
			params.Uptime = &m.Uptime
		}
		if err := workflow.ExecuteActivity(ctx, "UpdateHostHealth", params).Get(ctx, nil); err != nil {
			logger.Error("failed to record host health", "hostID", host.ID, "error", err)
			failed++
			continue
		}

		if alertRecipient != "" && healthAlertable(health) && host.HealthStatus != health {
			_ = workflow.ExecuteActivity(ctx, "EnqueueNotification", activity.EnqueueNotificationParams{
				Kind:      model.NotifyHostAlert,
				Recipient: alertRecipient,
				Payload: map[string]string{
					"host_name": host.Name,
					"status":    health,
					"cpu":       fmt.Sprintf("%.1f", probe.Metrics.CPU),
					"ram":       fmt.Sprintf("%.1f", probe.Metrics.RAM),
					"disk":      fmt.Sprintf("%.1f", probe.Metrics.Disk),
				},
			}).Get(ctx, nil)
		}
		processed++
	}

	return workflow.ExecuteActivity(ctx, "RecordSweepResult", activity.RecordSweepResultParams{
		Sweep:     "host_health",
		Processed: processed,
		Failed:    failed,
	}).Get(ctx, nil)
}

// classifyHealth maps one probe sample to a health status. Disk fills are
// alarming earlier than CPU or RAM spikes since they do not recover on their
// own.
func classifyHealth(p activity.ProbeResult) string {
	if !p.Reachable {
		return model.HealthOffline
	}
	m := p.Metrics
	if m.CPU > 90 || m.RAM > 90 || m.Disk > 90 {
		return model.HealthCritical
	}
	if m.CPU > 70 || m.RAM > 70 || m.Disk > 80 {
		return model.HealthWarning
	}
	return model.HealthHealthy
}

func healthAlertable(health string) bool {
	return health == model.HealthCritical || health == model.HealthOffline
}
