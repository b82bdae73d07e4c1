package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zxrrcpandey/rahulops/internal/model"
)

type SiteService struct {
	db DB
}

func NewSiteService(db DB) *SiteService {
	return &SiteService{db: db}
}

const siteColumns = `id, host_id, client_id, name, apps, status, ssl_enabled, scheduler_enabled,
	plan, amount, billing_cycle, expires_at, suspended_at, suspension_reason,
	reminder_sent_at, deployment_completed_at, created_at, updated_at`

func scanSite(row pgx.Row) (*model.Site, error) {
	var s model.Site
	err := row.Scan(&s.ID, &s.HostID, &s.ClientID, &s.Name, &s.Apps, &s.Status,
		&s.SSLEnabled, &s.SchedulerEnabled, &s.Plan, &s.Amount, &s.BillingCycle,
		&s.ExpiresAt, &s.SuspendedAt, &s.SuspensionReason, &s.ReminderSentAt,
		&s.DeploymentCompletedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new site in pending status after checking the target host
// still has capacity. The count excludes deleted sites.
func (s *SiteService) Create(ctx context.Context, site *model.Site) error {
	var siteCount, maxSites int
	err := s.db.QueryRow(ctx,
		`SELECT
			(SELECT count(*) FROM sites WHERE host_id = $1 AND status <> $2),
			max_sites
		 FROM hosts WHERE id = $1`,
		site.HostID, model.SiteStatusDeleted,
	).Scan(&siteCount, &maxSites)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("host %s: %w", site.HostID, ErrNotFound)
		}
		return fmt.Errorf("check host capacity: %w", err)
	}
	if siteCount >= maxSites {
		return &ConflictError{
			Resource: "host " + site.HostID,
			Reason:   fmt.Sprintf("at capacity (%d/%d sites)", siteCount, maxSites),
		}
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO sites (id, host_id, client_id, name, apps, status, ssl_enabled, scheduler_enabled,
			plan, amount, billing_cycle, expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		site.ID, site.HostID, site.ClientID, site.Name, site.Apps, site.Status,
		site.SSLEnabled, site.SchedulerEnabled, site.Plan, site.Amount,
		site.BillingCycle, site.ExpiresAt, site.CreatedAt, site.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert site: %w", err)
	}
	return nil
}

func (s *SiteService) GetByID(ctx context.Context, id string) (*model.Site, error) {
	site, err := scanSite(s.db.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("site %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get site %s: %w", id, err)
	}
	return site, nil
}

// List returns sites, optionally filtered by host, client or status.
func (s *SiteService) List(ctx context.Context, filter SiteFilter, limit int, cursor string) ([]model.Site, bool, error) {
	query := `SELECT ` + siteColumns + ` FROM sites`
	where := []string{}
	args := []any{}

	addFilter := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.HostID != "" {
		addFilter(`host_id = $%d`, filter.HostID)
	}
	if filter.ClientID != "" {
		addFilter(`client_id = $%d`, filter.ClientID)
	}
	if filter.Status != "" {
		addFilter(`status = $%d`, filter.Status)
	}
	if cursor != "" {
		addFilter(`id > $%d`, cursor)
	}

	for i, clause := range where {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d`, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []model.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, *site)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate sites: %w", err)
	}

	hasMore := len(sites) > limit
	if hasMore {
		sites = sites[:limit]
	}
	return sites, hasMore, nil
}

// SiteFilter narrows List results. Zero values mean no filter.
type SiteFilter struct {
	HostID   string
	ClientID string
	Status   string
}

// MarkDeleted soft-deletes a site. Backups and job history stay queryable.
func (s *SiteService) MarkDeleted(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE sites SET status = $1, updated_at = now() WHERE id = $2 AND status <> $1`,
		model.SiteStatusDeleted, id,
	)
	if err != nil {
		return fmt.Errorf("delete site %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("site %s: %w", id, ErrNotFound)
	}
	return nil
}
