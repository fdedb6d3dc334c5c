package handlers

import (
	"net/http"

	"github.com/baharkarakas/debtme-backend/internal/api/httpx"
	"github.com/baharkarakas/debtme-backend/internal/services"
)

type OTPHandler struct {
	OTP *services.OTPService
}

func NewOTPHandler(s *services.OTPService) *OTPHandler { return &OTPHandler{OTP: s} }

// Init rotates the caller's secret and returns provisioning data. The raw
// secret is only ever exposed inside the otpauth URI.
func (h *OTPHandler) Init(w http.ResponseWriter, r *http.Request) {
	p, err := h.OTP.InitSecret(r.Context(), caller(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httpx.WriteJSON(w, http.StatusOK, p)
}
