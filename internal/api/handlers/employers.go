package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/debtme-backend/internal/api/httpx"
	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/services"
)

type EmployerHandler struct {
	Emps *services.EmployerService
}

func NewEmployerHandler(s *services.EmployerService) *EmployerHandler { return &EmployerHandler{Emps: s} }

type employerReq struct {
	Name        *string `json:"name"`
	ContactInfo *string `json:"contact_info"`
}

func (h *EmployerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employerReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadBody(w, err)
		return
	}
	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	e, err := h.Emps.CreateEmployer(r.Context(), caller(r), name, req.ContactInfo)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, e)
}

func (h *EmployerHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Emps.ListEmployers(r.Context(), caller(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Employer{}
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *EmployerHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.Emps.GetEmployer(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, e)
}

func (h *EmployerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req employerReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadBody(w, err)
		return
	}
	e, err := h.Emps.UpdateEmployer(r.Context(), caller(r), chi.URLParam(r, "id"), req.Name, req.ContactInfo)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, e)
}

func (h *EmployerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Emps.DeleteEmployer(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- work payments ----------

type workPaymentReq struct {
	EmployerID  string           `json:"employer_id"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	PaymentDate *string          `json:"payment_date"`
}

type workPaymentView struct {
	ID           string    `json:"id"`
	EmployerID   string    `json:"employer_id"`
	EmployerName string    `json:"employer_name"`
	Amount       string    `json:"amount"`
	Description  *string   `json:"description,omitempty"`
	PaymentDate  time.Time `json:"payment_date"`
	CreatedAt    time.Time `json:"created_at"`
}

func viewWorkPayment(p models.WorkPayment) workPaymentView {
	return workPaymentView{
		ID: p.ID, EmployerID: p.EmployerID, EmployerName: p.EmployerName,
		Amount: money(p.Amount), Description: p.Description,
		PaymentDate: p.PaymentDate, CreatedAt: p.CreatedAt,
	}
}

func viewWorkPayments(ps []models.WorkPayment) []workPaymentView {
	out := make([]workPaymentView, 0, len(ps))
	for _, p := range ps {
		out = append(out, viewWorkPayment(p))
	}
	return out
}

func (h *EmployerHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req workPaymentReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadBody(w, err)
		return
	}
	paidAt, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", err.Error(), err)
		return
	}
	amount := decimal.Zero
	if req.Amount != nil {
		amount = *req.Amount
	}
	p, err := h.Emps.CreateWorkPayment(r.Context(), caller(r), req.EmployerID, amount, req.Description, paidAt)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, viewWorkPayment(p))
}

func (h *EmployerHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	list, err := h.Emps.ListWorkPayments(r.Context(), caller(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewWorkPayments(list))
}

func (h *EmployerHandler) ListEmployerPayments(w http.ResponseWriter, r *http.Request) {
	list, err := h.Emps.ListEmployerPayments(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewWorkPayments(list))
}

func (h *EmployerHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.Emps.GetWorkPayment(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewWorkPayment(p))
}

func (h *EmployerHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req workPaymentReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadBody(w, err)
		return
	}
	paidAt, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", err.Error(), err)
		return
	}
	p, err := h.Emps.UpdateWorkPayment(r.Context(), caller(r), chi.URLParam(r, "id"), req.Amount, req.Description, paidAt)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewWorkPayment(p))
}

func (h *EmployerHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.Emps.DeleteWorkPayment(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type summaryView struct {
	TotalPayments   int        `json:"total_payments"`
	TotalAmount     string     `json:"total_amount"`
	EmployersCount  int        `json:"employers_count"`
	LastPaymentDate *time.Time `json:"last_payment_date"`
}

func (h *EmployerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Emps.Summary(r.Context(), caller(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summaryView{
		TotalPayments:   s.TotalPayments,
		TotalAmount:     money(s.TotalAmount),
		EmployersCount:  s.EmployersCount,
		LastPaymentDate: s.LastPaymentDate,
	})
}
