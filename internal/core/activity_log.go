package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zxrrcpandey/rahulops/internal/model"
	"github.com/zxrrcpandey/rahulops/internal/platform"
)

type ActivityLogService struct {
	db DB
}

func NewActivityLogService(db DB) *ActivityLogService {
	return &ActivityLogService{db: db}
}

// Record appends one audit fact. detail may be nil.
func (s *ActivityLogService) Record(ctx context.Context, entityType, entityID, action string, detail any) error {
	var raw []byte
	if detail != nil {
		var err error
		raw, err = json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("encode activity detail: %w", err)
		}
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO activity_log (id, entity_type, entity_id, action, detail)
		 VALUES ($1, $2, $3, $4, $5)`,
		platform.NewID(), entityType, entityID, action, raw,
	)
	if err != nil {
		return fmt.Errorf("insert activity log entry: %w", err)
	}
	return nil
}

// ListByEntity returns the newest entries for one entity.
func (s *ActivityLogService) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]model.ActivityLogEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, entity_type, entity_id, action, detail, created_at
		 FROM activity_log WHERE entity_type = $1 AND entity_id = $2
		 ORDER BY created_at DESC LIMIT $3`,
		entityType, entityID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list activity for %s %s: %w", entityType, entityID, err)
	}
	defer rows.Close()

	var entries []model.ActivityLogEntry
	for rows.Next() {
		var e model.ActivityLogEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity log: %w", err)
	}
	return entries, nil
}
