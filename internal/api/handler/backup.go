package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zxrrcpandey/rahulops/internal/api/request"
	"github.com/zxrrcpandey/rahulops/internal/api/response"
	"github.com/zxrrcpandey/rahulops/internal/core"
	"github.com/zxrrcpandey/rahulops/internal/model"
	"github.com/zxrrcpandey/rahulops/internal/platform"
)

type Backup struct {
	svc *core.BackupService
}

func NewBackup(svc *core.BackupService) *Backup {
	return &Backup{svc: svc}
}

// Create triggers a manual backup run for a site.
func (h *Backup) Create(w http.ResponseWriter, r *http.Request) {
	siteID, err := request.RequireID(chi.URLParam(r, "siteID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.CreateBackup
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	backup, err := h.svc.Create(r.Context(), siteID, req.Type)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusAccepted, backup)
}

func (h *Backup) ListBySite(w http.ResponseWriter, r *http.Request) {
	siteID, err := request.RequireID(chi.URLParam(r, "siteID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	pg := request.ParsePagination(r)
	backups, hasMore, err := h.svc.ListBySite(r.Context(), siteID, pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var nextCursor string
	if hasMore && len(backups) > 0 {
		nextCursor = backups[len(backups)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, backups, nextCursor, hasMore)
}

func (h *Backup) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	backup, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, backup)
}

// UpsertSchedule creates or replaces the schedule for (site, frequency).
func (h *Backup) UpsertSchedule(w http.ResponseWriter, r *http.Request) {
	siteID, err := request.RequireID(chi.URLParam(r, "siteID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpsertBackupSchedule
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	sched := &model.BackupSchedule{
		ID:         platform.NewID(),
		SiteID:     siteID,
		Frequency:  req.Frequency,
		Weekday:    req.Weekday,
		BackupType: req.BackupType,
		IsActive:   isActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.svc.UpsertSchedule(r.Context(), sched); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, sched)
}

func (h *Backup) ListSchedules(w http.ResponseWriter, r *http.Request) {
	siteID, err := request.RequireID(chi.URLParam(r, "siteID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedules, err := h.svc.ListSchedules(r.Context(), siteID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, schedules)
}
