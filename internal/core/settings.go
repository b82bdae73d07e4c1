package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zxrrcpandey/rahulops/internal/model"
)

const suspensionPolicyKey = "auto_suspension"

type SettingsService struct {
	db DB
}

func NewSettingsService(db DB) *SettingsService {
	return &SettingsService{db: db}
}

// SuspensionPolicy returns the stored policy, or the default when no row
// exists yet.
func (s *SettingsService) SuspensionPolicy(ctx context.Context) (model.SuspensionPolicy, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, suspensionPolicyKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.DefaultSuspensionPolicy(), nil
		}
		return model.SuspensionPolicy{}, fmt.Errorf("get suspension policy: %w", err)
	}

	var policy model.SuspensionPolicy
	if err := json.Unmarshal(raw, &policy); err != nil {
		return model.SuspensionPolicy{}, fmt.Errorf("decode suspension policy: %w", err)
	}
	return policy, nil
}

func (s *SettingsService) UpdateSuspensionPolicy(ctx context.Context, policy model.SuspensionPolicy) error {
	if policy.GracePeriodDays < 0 {
		return fmt.Errorf("grace period %d days out of range", policy.GracePeriodDays)
	}
	for _, d := range policy.ReminderDays {
		if d < 0 {
			return fmt.Errorf("reminder threshold %d days out of range", d)
		}
	}

	raw, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("encode suspension policy: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		suspensionPolicyKey, raw,
	)
	if err != nil {
		return fmt.Errorf("update suspension policy: %w", err)
	}
	return nil
}
