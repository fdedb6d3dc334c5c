package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/debtme-backend/internal/api/httpx"
	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/services"
)

type TransactionHandler struct {
	Txns     *services.TransactionService
	Balances *services.BalanceService
}

func NewTransactionHandler(ts *services.TransactionService, bs *services.BalanceService) *TransactionHandler {
	return &TransactionHandler{Txns: ts, Balances: bs}
}

// Amount accepts a JSON string ("12.50") or number (12.5).
type createTxnReq struct {
	UserID string                 `json:"user_id"`
	Amount decimal.Decimal        `json:"amount"`
	Type   models.TransactionType `json:"type"`
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTxnReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadBody(w, err)
		return
	}
	tx, err := h.Txns.Create(r.Context(), caller(r), req.UserID, req.Amount, req.Type)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, viewTransaction(tx))
}

type approveReq struct {
	Code string `json:"code"`
}

func (h *TransactionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveReq
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.BadBody(w, err)
			return
		}
	}
	tx, err := h.Txns.ApproveDebt(r.Context(), caller(r), chi.URLParam(r, "id"), req.Code)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewTransaction(tx))
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.Txns.GetByID(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewTransaction(tx))
}

func (h *TransactionHandler) ListForPair(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Txns.ListForPair(r.Context(), caller(r), chi.URLParam(r, "user_id"), chi.URLParam(r, "provider_id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewTransactions(txs))
}

type balanceView struct {
	UserID        string `json:"user_id"`
	ProviderID    string `json:"provider_id"`
	TotalDebt     string `json:"total_debt"`
	TotalPayments string `json:"total_payments"`
	Balance       string `json:"balance"`
}

func (h *TransactionHandler) Balance(w http.ResponseWriter, r *http.Request) {
	b, err := h.Balances.Compute(r.Context(), caller(r), chi.URLParam(r, "user_id"), chi.URLParam(r, "provider_id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, balanceView{
		UserID:        b.UserID,
		ProviderID:    b.ProviderID,
		TotalDebt:     money(b.TotalDebt),
		TotalPayments: money(b.TotalPayments),
		Balance:       money(b.Balance),
	})
}
