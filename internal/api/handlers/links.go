package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/debtme-backend/internal/api/httpx"
	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/services"
)

type LinkHandler struct {
	Links *services.LinkService
}

func NewLinkHandler(ls *services.LinkService) *LinkHandler { return &LinkHandler{Links: ls} }

type createLinkReq struct {
	UserID string `json:"user_id"`
}

// Create answers 200 for an existing pair and 201 when a new invitation is made.
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLinkReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadBody(w, err)
		return
	}
	l, created, err := h.Links.Invite(r.Context(), caller(r), req.UserID)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.WriteJSON(w, status, l)
}

type linkStatusReq struct {
	Status models.LinkStatus `json:"status"`
}

func (h *LinkHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req linkStatusReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadBody(w, err)
		return
	}
	l, err := h.Links.SetLinkStatus(r.Context(), chi.URLParam(r, "id"), caller(r), req.Status)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

// Invitations is the user's list of pending invitations.
func (h *LinkHandler) Invitations(w http.ResponseWriter, r *http.Request) {
	id := caller(r)
	links, err := h.Links.ListPendingForUser(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	views, err := h.Links.WithCounterparties(r.Context(), id, links)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

// Applications is every invitation the provider has sent, any status.
func (h *LinkHandler) Applications(w http.ResponseWriter, r *http.Request) {
	id := caller(r)
	links, err := h.Links.ListAllForProvider(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	views, err := h.Links.WithCounterparties(r.Context(), id, links)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}
