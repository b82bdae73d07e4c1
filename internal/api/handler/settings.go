package handler

import (
	"net/http"

	"github.com/zxrrcpandey/rahulops/internal/api/request"
	"github.com/zxrrcpandey/rahulops/internal/api/response"
	"github.com/zxrrcpandey/rahulops/internal/core"
	"github.com/zxrrcpandey/rahulops/internal/model"
)

type Settings struct {
	svc *core.SettingsService
}

func NewSettings(svc *core.SettingsService) *Settings {
	return &Settings{svc: svc}
}

func (h *Settings) GetSuspensionPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.svc.SuspensionPolicy(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, policy)
}

func (h *Settings) UpdateSuspensionPolicy(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSuspensionPolicy
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	policy := model.SuspensionPolicy{
		Enabled:         req.Enabled,
		GracePeriodDays: req.GracePeriodDays,
		SendReminders:   req.SendReminders,
		ReminderDays:    req.ReminderDays,
	}
	if err := h.svc.UpdateSuspensionPolicy(r.Context(), policy); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, policy)
}
