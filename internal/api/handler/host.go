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

type Host struct {
	svc *core.HostService
}

func NewHost(svc *core.HostService) *Host {
	return &Host{svc: svc}
}

func (h *Host) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterHost
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.SSHPort == 0 {
		req.SSHPort = 22
	}
	if req.AppRoot == "" {
		req.AppRoot = "/home/" + req.SSHUser + "/frappe-bench"
	}
	if req.MaxSites == 0 {
		req.MaxSites = 25
	}

	now := time.Now()
	host := &model.Host{
		ID:             platform.NewID(),
		Name:           req.Name,
		IPAddress:      req.IPAddress,
		SSHPort:        req.SSHPort,
		SSHUser:        req.SSHUser,
		SSHKeyPath:     req.SSHKeyPath,
		DBRootPassword: req.DBRootPassword,
		AppRoot:        req.AppRoot,
		MaxSites:       req.MaxSites,
		Status:         model.HostStatusPending,
		HealthStatus:   model.HealthUnknown,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.svc.Register(r.Context(), host); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, host)
}

func (h *Host) List(w http.ResponseWriter, r *http.Request) {
	pg := request.ParsePagination(r)

	hosts, hasMore, err := h.svc.List(r.Context(), pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var nextCursor string
	if hasMore && len(hosts) > 0 {
		nextCursor = hosts[len(hosts)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, hosts, nextCursor, hasMore)
}

func (h *Host) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	host, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, host)
}

// StartSetup kicks off the provisioning workflow for a pending host.
func (h *Host) StartSetup(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.StartSetup(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusAccepted, map[string]string{"status": model.HostStatusSetupRunning})
}

// MarkOffline takes a host out of rotation. Hosts are never deleted.
func (h *Host) MarkOffline(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.MarkOffline(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
