package request

// UpdateSuspensionPolicy is the request body for updating the auto-suspension
// settings.
type UpdateSuspensionPolicy struct {
	Enabled         bool  `json:"enabled"`
	GracePeriodDays int   `json:"grace_period_days" validate:"min=0"`
	SendReminders   bool  `json:"send_reminders"`
	ReminderDays    []int `json:"reminder_days" validate:"dive,min=0"`
}
