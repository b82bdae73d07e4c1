package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zxrrcpandey/rahulops/internal/api/request"
	"github.com/zxrrcpandey/rahulops/internal/api/response"
	"github.com/zxrrcpandey/rahulops/internal/core"
)

type Activity struct {
	svc *core.ActivityLogService
}

func NewActivity(svc *core.ActivityLogService) *Activity {
	return &Activity{svc: svc}
}

func (h *Activity) ListByEntity(w http.ResponseWriter, r *http.Request) {
	entityType, err := request.RequireID(chi.URLParam(r, "entityType"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	entityID, err := request.RequireID(chi.URLParam(r, "entityID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	pg := request.ParsePagination(r)
	entries, err := h.svc.ListByEntity(r.Context(), entityType, entityID, pg.Limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, entries)
}
