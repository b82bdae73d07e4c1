package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zxrrcpandey/rahulops/internal/api/request"
	"github.com/zxrrcpandey/rahulops/internal/api/response"
	"github.com/zxrrcpandey/rahulops/internal/core"
)

type Job struct {
	svc *core.JobService
}

func NewJob(svc *core.JobService) *Job {
	return &Job{svc: svc}
}

// RequestDeployment queues a deployment job for a site and starts the
// pipeline. At most one job per site can be queued or running.
func (h *Job) RequestDeployment(w http.ResponseWriter, r *http.Request) {
	siteID, err := request.RequireID(chi.URLParam(r, "siteID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.svc.RequestDeployment(r.Context(), siteID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusAccepted, job)
}

func (h *Job) ListBySite(w http.ResponseWriter, r *http.Request) {
	siteID, err := request.RequireID(chi.URLParam(r, "siteID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	pg := request.ParsePagination(r)
	jobs, err := h.svc.ListBySite(r.Context(), siteID, pg.Limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, jobs)
}

func (h *Job) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, job)
}

// Cancel stops a queued or running job. Completed jobs are immutable.
func (h *Job) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Cancel(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
