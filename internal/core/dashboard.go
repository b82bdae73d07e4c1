package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DashboardStats is the fleet-wide summary shown on the control panel
// landing page.
type DashboardStats struct {
	Hosts struct {
		Total    int `json:"total"`
		Active   int `json:"active"`
		Warning  int `json:"warning"`
		Critical int `json:"critical"`
		Offline  int `json:"offline"`
	} `json:"hosts"`
	Sites struct {
		Total     int `json:"total"`
		Active    int `json:"active"`
		Suspended int `json:"suspended"`
		Deploying int `json:"deploying"`
		Failed    int `json:"failed"`
	} `json:"sites"`
	ExpiringSoon   int     `json:"expiring_soon"`
	RunningJobs    int     `json:"running_jobs"`
	BackupsToday   int     `json:"backups_today"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
}

type DashboardService struct {
	db DB
}

func NewDashboardService(db DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats runs the summary queries in parallel.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.db.QueryRow(ctx,
			`SELECT count(*),
				count(*) FILTER (WHERE status = 'active'),
				count(*) FILTER (WHERE health_status = 'warning'),
				count(*) FILTER (WHERE health_status = 'critical'),
				count(*) FILTER (WHERE health_status = 'offline')
			 FROM hosts`,
		).Scan(&stats.Hosts.Total, &stats.Hosts.Active, &stats.Hosts.Warning,
			&stats.Hosts.Critical, &stats.Hosts.Offline)
		if err != nil {
			return fmt.Errorf("host stats: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := s.db.QueryRow(ctx,
			`SELECT count(*) FILTER (WHERE status <> 'deleted'),
				count(*) FILTER (WHERE status = 'active'),
				count(*) FILTER (WHERE status = 'suspended'),
				count(*) FILTER (WHERE status = 'deploying'),
				count(*) FILTER (WHERE status = 'failed')
			 FROM sites`,
		).Scan(&stats.Sites.Total, &stats.Sites.Active, &stats.Sites.Suspended,
			&stats.Sites.Deploying, &stats.Sites.Failed)
		if err != nil {
			return fmt.Errorf("site stats: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := s.db.QueryRow(ctx,
			`SELECT count(*) FROM sites
			 WHERE status = 'active' AND expires_at IS NOT NULL
			   AND expires_at BETWEEN now() AND now() + interval '7 days'`,
		).Scan(&stats.ExpiringSoon)
		if err != nil {
			return fmt.Errorf("expiring sites: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := s.db.QueryRow(ctx,
			`SELECT count(*) FROM deployment_jobs WHERE status IN ('queued', 'running')`,
		).Scan(&stats.RunningJobs)
		if err != nil {
			return fmt.Errorf("running jobs: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := s.db.QueryRow(ctx,
			`SELECT count(*) FROM backups
			 WHERE created_at >= date_trunc('day', now())`,
		).Scan(&stats.BackupsToday)
		if err != nil {
			return fmt.Errorf("backups today: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := s.db.QueryRow(ctx,
			`SELECT COALESCE(sum(CASE billing_cycle WHEN 'yearly' THEN amount / 12 ELSE amount END), 0)
			 FROM sites WHERE status = 'active'`,
		).Scan(&stats.MonthlyRevenue)
		if err != nil {
			return fmt.Errorf("monthly revenue: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}
