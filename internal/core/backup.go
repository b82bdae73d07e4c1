package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/zxrrcpandey/rahulops/internal/model"
	"github.com/zxrrcpandey/rahulops/internal/platform"
)

type BackupService struct {
	db DB
	tc temporalclient.Client
}

func NewBackupService(db DB, tc temporalclient.Client) *BackupService {
	return &BackupService{db: db, tc: tc}
}

const backupColumns = `id, site_id, type, trigger, status, storage_path, size_bytes,
	error_message, started_at, completed_at, created_at, updated_at`

func scanBackup(row pgx.Row) (*model.Backup, error) {
	var b model.Backup
	err := row.Scan(&b.ID, &b.SiteID, &b.Type, &b.Trigger, &b.Status, &b.StoragePath,
		&b.SizeBytes, &b.ErrorMessage, &b.StartedAt, &b.CompletedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create records a manual backup and starts the backup workflow for it.
func (s *BackupService) Create(ctx context.Context, siteID, backupType string) (*model.Backup, error) {
	var siteStatus string
	err := s.db.QueryRow(ctx, `SELECT status FROM sites WHERE id = $1`, siteID).Scan(&siteStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("site %s: %w", siteID, ErrNotFound)
		}
		return nil, fmt.Errorf("get site %s: %w", siteID, err)
	}
	if siteStatus == model.SiteStatusDeleted {
		return nil, &ConflictError{Resource: "site " + siteID, Reason: "site is deleted"}
	}

	backupID := platform.NewID()
	row := s.db.QueryRow(ctx,
		`INSERT INTO backups (id, site_id, type, trigger, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+backupColumns,
		backupID, siteID, backupType, model.BackupTriggerManual, model.BackupStatusPending,
	)
	backup, err := scanBackup(row)
	if err != nil {
		return nil, fmt.Errorf("insert backup: %w", err)
	}

	_, err = s.tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        "site-backup-" + backup.ID,
		TaskQueue: taskQueue,
	}, "RunSiteBackupWorkflow", backup.ID)
	if err != nil {
		return nil, fmt.Errorf("start RunSiteBackupWorkflow: %w", err)
	}
	return backup, nil
}

func (s *BackupService) GetByID(ctx context.Context, id string) (*model.Backup, error) {
	b, err := scanBackup(s.db.QueryRow(ctx, `SELECT `+backupColumns+` FROM backups WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("backup %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get backup %s: %w", id, err)
	}
	return b, nil
}

func (s *BackupService) ListBySite(ctx context.Context, siteID string, limit int, cursor string) ([]model.Backup, bool, error) {
	query := `SELECT ` + backupColumns + ` FROM backups WHERE site_id = $1`
	args := []any{siteID}
	argIdx := 2

	if cursor != "" {
		query += fmt.Sprintf(` AND id > $%d`, argIdx)
		args = append(args, cursor)
		argIdx++
	}

	query += ` ORDER BY id`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list backups for site %s: %w", siteID, err)
	}
	defer rows.Close()

	var backups []model.Backup
	for rows.Next() {
		b, err := scanBackup(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scan backup: %w", err)
		}
		backups = append(backups, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate backups: %w", err)
	}

	hasMore := len(backups) > limit
	if hasMore {
		backups = backups[:limit]
	}
	return backups, hasMore, nil
}

// UpsertSchedule creates or replaces the backup schedule for a site. One
// schedule per site and frequency.
func (s *BackupService) UpsertSchedule(ctx context.Context, sched *model.BackupSchedule) error {
	if sched.Frequency == model.FrequencyWeekly && (sched.Weekday < 0 || sched.Weekday > 6) {
		return fmt.Errorf("weekday %d out of range", sched.Weekday)
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO backup_schedules (id, site_id, frequency, weekday, backup_type, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (site_id, frequency) DO UPDATE
		 SET weekday = EXCLUDED.weekday, backup_type = EXCLUDED.backup_type,
		     is_active = EXCLUDED.is_active, updated_at = now()`,
		sched.ID, sched.SiteID, sched.Frequency, sched.Weekday, sched.BackupType, sched.IsActive,
	)
	if err != nil {
		return fmt.Errorf("upsert backup schedule: %w", err)
	}
	return nil
}

func (s *BackupService) ListSchedules(ctx context.Context, siteID string) ([]model.BackupSchedule, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, site_id, frequency, weekday, backup_type, is_active, last_run_at, created_at, updated_at
		 FROM backup_schedules WHERE site_id = $1 ORDER BY frequency`,
		siteID,
	)
	if err != nil {
		return nil, fmt.Errorf("list backup schedules for site %s: %w", siteID, err)
	}
	defer rows.Close()

	var scheds []model.BackupSchedule
	for rows.Next() {
		var sc model.BackupSchedule
		if err := rows.Scan(&sc.ID, &sc.SiteID, &sc.Frequency, &sc.Weekday, &sc.BackupType,
			&sc.IsActive, &sc.LastRunAt, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan backup schedule: %w", err)
		}
		scheds = append(scheds, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backup schedules: %w", err)
	}
	return scheds, nil
}
