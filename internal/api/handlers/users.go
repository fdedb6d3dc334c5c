package handlers

import (
	"net/http"

	"github.com/baharkarakas/debtme-backend/internal/api/httpx"
	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/services"
)

type UserHandler struct {
	Users *services.UserService
	Links *services.LinkService
}

func NewUserHandler(us *services.UserService, ls *services.LinkService) *UserHandler {
	return &UserHandler{Users: us, Links: ls}
}

type meResp struct {
	models.User
	Capabilities models.Capabilities `json:"capabilities"`
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id := caller(r)
	u, err := h.Users.Get(r.Context(), id.ID)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, meResp{User: u, Capabilities: id.Caps})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50, 200)
	offset := queryInt(r, "offset", 0, 0)
	users, err := h.Users.List(r.Context(), caller(r), limit, offset)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

// MyProviders lists providers that the caller has approved.
func (h *UserHandler) MyProviders(w http.ResponseWriter, r *http.Request) {
	id := caller(r)
	links, err := h.Links.ListApprovedProviders(r.Context(), id)
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

// MyClients lists users who approved the calling provider.
func (h *UserHandler) MyClients(w http.ResponseWriter, r *http.Request) {
	id := caller(r)
	links, err := h.Links.ListApprovedClients(r.Context(), id)
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
