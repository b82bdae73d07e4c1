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

type Client struct {
	svc *core.ClientService
}

func NewClient(svc *core.ClientService) *Client {
	return &Client{svc: svc}
}

func (h *Client) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateClient
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	client := &model.Client{
		ID:        platform.NewID(),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.svc.Create(r.Context(), client); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, client)
}

func (h *Client) List(w http.ResponseWriter, r *http.Request) {
	pg := request.ParsePagination(r)

	clients, hasMore, err := h.svc.List(r.Context(), pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var nextCursor string
	if hasMore && len(clients) > 0 {
		nextCursor = clients[len(clients)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, clients, nextCursor, hasMore)
}

func (h *Client) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, client)
}

func (h *Client) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateClient
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	client.Name = req.Name
	client.Email = req.Email
	if err := h.svc.Update(r.Context(), client); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, client)
}
