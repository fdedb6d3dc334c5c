package handlers

import (
	"net/http"

	"github.com/baharkarakas/debtme-backend/internal/api/httpx"
	"github.com/baharkarakas/debtme-backend/internal/auth"
	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/services"
)

type AuthHandler struct {
	Users *services.UserService
}

func NewAuthHandler(us *services.UserService) *AuthHandler {
	return &AuthHandler{Users: us}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadBody(w, err)
		return
	}
	u, err := h.Users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

type providerReq struct {
	registerReq
	ProviderKind models.ProviderKind `json:"provider_kind"`
}

// CreateProvider is the admin path for onboarding lenders and payers.
func (h *AuthHandler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var req providerReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadBody(w, err)
		return
	}
	u, err := h.Users.CreateProvider(r.Context(), caller(r), req.Name, req.Email, req.Password, req.ProviderKind)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	auth.Pair
	User models.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadBody(w, err)
		return
	}
	pair, u, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResp{Pair: pair, User: u})
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := httpx.DecodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "refresh_token required", nil)
		return
	}
	pair, err := h.Users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pair)
}
