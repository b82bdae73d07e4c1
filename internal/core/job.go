package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/zxrrcpandey/rahulops/internal/model"
	"github.com/zxrrcpandey/rahulops/internal/platform"
)

type JobService struct {
	db DB
	tc temporalclient.Client
}

func NewJobService(db DB, tc temporalclient.Client) *JobService {
	return &JobService{db: db, tc: tc}
}

const jobColumns = `id, site_id, job_type, status, progress, current_step, error_message,
	started_at, completed_at, created_at, updated_at`

func scanJob(row pgx.Row) (*model.Job, error) {
	var j model.Job
	err := row.Scan(&j.ID, &j.SiteID, &j.JobType, &j.Status, &j.Progress, &j.CurrentStep,
		&j.ErrorMessage, &j.StartedAt, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// RequestDeployment creates a deploy job for the site and starts the
// deployment workflow. At most one job per site may be queued or running,
// enforced by a partial unique index so concurrent requests cannot both
// succeed.
func (s *JobService) RequestDeployment(ctx context.Context, siteID string) (*model.Job, error) {
	var site model.Site
	err := s.db.QueryRow(ctx, `SELECT id, status FROM sites WHERE id = $1`, siteID).
		Scan(&site.ID, &site.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("site %s: %w", siteID, ErrNotFound)
		}
		return nil, fmt.Errorf("get site %s: %w", siteID, err)
	}
	if site.Status == model.SiteStatusDeleted {
		return nil, &ConflictError{Resource: "site " + siteID, Reason: "site is deleted"}
	}

	jobID := platform.NewID()
	row := s.db.QueryRow(ctx,
		`INSERT INTO deployment_jobs (id, site_id, job_type, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+jobColumns,
		jobID, siteID, model.JobTypeDeploy, model.JobStatusQueued,
	)
	job, err := scanJob(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, &ConflictError{
				Resource: "site " + siteID,
				Reason:   "a job is already queued or running",
			}
		}
		return nil, fmt.Errorf("insert job: %w", err)
	}

	_, err = s.tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        "deploy-site-" + job.ID,
		TaskQueue: taskQueue,
	}, "DeploySiteWorkflow", job.ID)
	if err != nil {
		return nil, fmt.Errorf("start DeploySiteWorkflow: %w", err)
	}
	return job, nil
}

// Cancel requests cancellation of a queued or running job. The workflow
// honors the request at the next step boundary.
func (s *JobService) Cancel(ctx context.Context, jobID string) error {
	job, err := s.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != model.JobStatusQueued && job.Status != model.JobStatusRunning {
		return &ConflictError{Resource: "job " + jobID, Reason: "job is not in progress"}
	}
	if err := s.tc.CancelWorkflow(ctx, "deploy-site-"+jobID, ""); err != nil {
		return fmt.Errorf("cancel workflow for job %s: %w", jobID, err)
	}
	return nil
}

func (s *JobService) GetByID(ctx context.Context, id string) (*model.Job, error) {
	job, err := scanJob(s.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM deployment_jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

func (s *JobService) ListBySite(ctx context.Context, siteID string, limit int) ([]model.Job, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+jobColumns+` FROM deployment_jobs WHERE site_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		siteID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list jobs for site %s: %w", siteID, err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}
