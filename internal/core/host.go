package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/zxrrcpandey/rahulops/internal/model"
)

type HostService struct {
	db DB
	tc temporalclient.Client
}

func NewHostService(db DB, tc temporalclient.Client) *HostService {
	return &HostService{db: db, tc: tc}
}

const hostColumns = `id, name, ip_address, ssh_port, ssh_user, ssh_key_path, db_root_password, app_root, max_sites,
	status, health_status, cpu_usage, ram_usage, disk_usage, uptime,
	last_health_check_at, setup_completed_at, created_at, updated_at`

func scanHost(row pgx.Row) (*model.Host, error) {
	var h model.Host
	err := row.Scan(&h.ID, &h.Name, &h.IPAddress, &h.SSHPort, &h.SSHUser, &h.SSHKeyPath,
		&h.DBRootPassword, &h.AppRoot, &h.MaxSites, &h.Status, &h.HealthStatus, &h.CPUUsage, &h.RAMUsage,
		&h.DiskUsage, &h.Uptime, &h.LastHealthCheckAt, &h.SetupCompletedAt,
		&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Register inserts a new host in pending status.
func (s *HostService) Register(ctx context.Context, host *model.Host) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO hosts (id, name, ip_address, ssh_port, ssh_user, ssh_key_path, db_root_password, app_root, max_sites, status, health_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		host.ID, host.Name, host.IPAddress, host.SSHPort, host.SSHUser, host.SSHKeyPath,
		host.DBRootPassword, host.AppRoot, host.MaxSites, host.Status, host.HealthStatus, host.CreatedAt, host.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert host: %w", err)
	}
	return nil
}

func (s *HostService) GetByID(ctx context.Context, id string) (*model.Host, error) {
	h, err := scanHost(s.db.QueryRow(ctx, `SELECT `+hostColumns+` FROM hosts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("host %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get host %s: %w", id, err)
	}
	return h, nil
}

func (s *HostService) List(ctx context.Context, limit int, cursor string) ([]model.Host, bool, error) {
	query := `SELECT ` + hostColumns + ` FROM hosts`
	args := []any{}
	argIdx := 1

	if cursor != "" {
		query += fmt.Sprintf(` WHERE id > $%d`, argIdx)
		args = append(args, cursor)
		argIdx++
	}

	query += ` ORDER BY id`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []model.Host
	for rows.Next() {
		h, err := scanHost(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scan host: %w", err)
		}
		hosts = append(hosts, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate hosts: %w", err)
	}

	hasMore := len(hosts) > limit
	if hasMore {
		hosts = hosts[:limit]
	}
	return hosts, hasMore, nil
}

// StartSetup marks the host setup_running and kicks off the setup workflow.
func (s *HostService) StartSetup(ctx context.Context, id string) error {
	host, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if host.Status == model.HostStatusSetupRunning {
		return &ConflictError{Resource: "host " + id, Reason: "setup is already running"}
	}

	_, err = s.db.Exec(ctx,
		`UPDATE hosts SET status = $1, updated_at = now() WHERE id = $2`,
		model.HostStatusSetupRunning, id,
	)
	if err != nil {
		return fmt.Errorf("set host %s status: %w", id, err)
	}

	_, err = s.tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        "setup-host-" + id,
		TaskQueue: taskQueue,
	}, "SetupHostWorkflow", id)
	if err != nil {
		return fmt.Errorf("start SetupHostWorkflow: %w", err)
	}
	return nil
}

// MarkOffline flags a host as offline. Hosts are never deleted.
func (s *HostService) MarkOffline(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE hosts SET status = $1, health_status = $2, updated_at = now() WHERE id = $3`,
		model.HostStatusOffline, model.HealthOffline, id,
	)
	if err != nil {
		return fmt.Errorf("mark host %s offline: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("host %s: %w", id, ErrNotFound)
	}
	return nil
}
