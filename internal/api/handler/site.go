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

type Site struct {
	svc  *core.SiteService
	subs *core.SubscriptionService
}

func NewSite(svc *core.SiteService, subs *core.SubscriptionService) *Site {
	return &Site{svc: svc, subs: subs}
}

func (h *Site) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSite
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sslEnabled := true
	if req.SSLEnabled != nil {
		sslEnabled = *req.SSLEnabled
	}
	if req.BillingCycle == "" {
		req.BillingCycle = "monthly"
	}

	now := time.Now()
	site := &model.Site{
		ID:           platform.NewID(),
		HostID:       req.HostID,
		ClientID:     req.ClientID,
		Name:         req.Name,
		Apps:         req.Apps,
		Status:       model.SiteStatusPending,
		SSLEnabled:   sslEnabled,
		Plan:         req.Plan,
		Amount:       req.Amount,
		BillingCycle: req.BillingCycle,
		ExpiresAt:    req.ExpiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.svc.Create(r.Context(), site); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, site)
}

func (h *Site) List(w http.ResponseWriter, r *http.Request) {
	pg := request.ParsePagination(r)
	filter := core.SiteFilter{
		HostID:   r.URL.Query().Get("host_id"),
		ClientID: r.URL.Query().Get("client_id"),
		Status:   r.URL.Query().Get("status"),
	}

	sites, hasMore, err := h.svc.List(r.Context(), filter, pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var nextCursor string
	if hasMore && len(sites) > 0 {
		nextCursor = sites[len(sites)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, sites, nextCursor, hasMore)
}

func (h *Site) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	site, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, site)
}

func (h *Site) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.MarkDeleted(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Suspend takes the site offline through the suspension workflow.
func (h *Site) Suspend(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.SuspendSite
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.subs.Suspend(r.Context(), id, req.Reason); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusAccepted, map[string]string{"status": model.SiteStatusSuspended})
}

// Reactivate lifts a suspension through the reactivation workflow.
func (h *Site) Reactivate(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.ReactivateSite
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.subs.Reactivate(r.Context(), id, req.ExpiresAt); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusAccepted, map[string]string{"status": model.SiteStatusActive})
}
