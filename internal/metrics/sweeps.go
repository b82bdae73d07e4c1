package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepItems counts processed sweep items by sweep name and outcome
	// (processed, skipped, failed).
	SweepItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_sweep_items_total",
			Help: "Sweep items processed, by sweep and outcome",
		},
		[]string{"sweep", "outcome"},
	)

	// DeploymentsTotal counts finished deployment pipelines by terminal status.
	DeploymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_deployments_total",
			Help: "Finished deployment pipelines by terminal status",
		},
		[]string{"status"},
	)

	// RemoteCommands counts remote command executions by result
	// (ok, command_failed, unreachable).
	RemoteCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_remote_commands_total",
			Help: "Remote command executions by result",
		},
		[]string{"result"},
	)
)
