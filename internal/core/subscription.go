package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/zxrrcpandey/rahulops/internal/model"
)

// DefaultExtensionDays is how far a reactivation moves the expiry forward
// when no explicit date is given.
const DefaultExtensionDays = 30

type SubscriptionService struct {
	db DB
	tc temporalclient.Client
}

func NewSubscriptionService(db DB, tc temporalclient.Client) *SubscriptionService {
	return &SubscriptionService{db: db, tc: tc}
}

// Suspend manually suspends an active site with the given reason.
func (s *SubscriptionService) Suspend(ctx context.Context, siteID, reason string) error {
	var status string
	err := s.db.QueryRow(ctx, `SELECT status FROM sites WHERE id = $1`, siteID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("site %s: %w", siteID, ErrNotFound)
		}
		return fmt.Errorf("get site %s: %w", siteID, err)
	}
	if status == model.SiteStatusSuspended {
		return &ConflictError{Resource: "site " + siteID, Reason: "already suspended"}
	}
	if status != model.SiteStatusActive {
		return &ConflictError{Resource: "site " + siteID, Reason: "site is not active (status: " + status + ")"}
	}

	_, err = s.tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        "suspend-site-" + siteID,
		TaskQueue: taskQueue,
	}, "SuspendSiteWorkflow", model.SuspendRequest{SiteID: siteID, Reason: reason})
	if err != nil {
		return fmt.Errorf("start SuspendSiteWorkflow: %w", err)
	}
	return nil
}

// Reactivate lifts a suspension and extends the subscription. When newExpiry
// is nil the expiry moves DefaultExtensionDays from now.
func (s *SubscriptionService) Reactivate(ctx context.Context, siteID string, newExpiry *time.Time) error {
	var status string
	err := s.db.QueryRow(ctx, `SELECT status FROM sites WHERE id = $1`, siteID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("site %s: %w", siteID, ErrNotFound)
		}
		return fmt.Errorf("get site %s: %w", siteID, err)
	}
	if status == model.SiteStatusActive {
		return fmt.Errorf("site %s: %w", siteID, ErrAlreadyActive)
	}
	if status != model.SiteStatusSuspended {
		return &ConflictError{Resource: "site " + siteID, Reason: "site is not suspended (status: " + status + ")"}
	}

	expiry := time.Now().UTC().AddDate(0, 0, DefaultExtensionDays)
	if newExpiry != nil {
		expiry = newExpiry.UTC()
	}

	_, err = s.tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        "reactivate-site-" + siteID,
		TaskQueue: taskQueue,
	}, "ReactivateSiteWorkflow", model.ReactivateRequest{SiteID: siteID, ExpiresAt: expiry})
	if err != nil {
		return fmt.Errorf("start ReactivateSiteWorkflow: %w", err)
	}
	return nil
}
