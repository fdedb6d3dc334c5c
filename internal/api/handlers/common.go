package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/baharkarakas/debtme-backend/internal/api/validate"
	"github.com/baharkarakas/debtme-backend/internal/middleware"
	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/shopspring/decimal"
)

// caller is the identity placed by the auth middleware. Unauthenticated
// routes get the zero identity, which holds no capabilities.
func caller(r *http.Request) models.Identity {
	id, _ := middleware.IdentityFrom(r.Context())
	return id
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func queryInt(r *http.Request, key string, def, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, validate.Errs{{Field: field, Msg: "must be RFC 3339 or YYYY-MM-DD"}}
}

type transactionView struct {
	ID         string                   `json:"id"`
	UserID     string                   `json:"user_id"`
	ProviderID string                   `json:"provider_id"`
	Type       models.TransactionType   `json:"type"`
	Status     models.TransactionStatus `json:"status"`
	Amount     string                   `json:"amount"`
	CreatedAt  time.Time                `json:"created_at"`
}

func viewTransaction(t models.Transaction) transactionView {
	return transactionView{
		ID: t.ID, UserID: t.UserID, ProviderID: t.ProviderID,
		Type: t.Type, Status: t.Status, Amount: money(t.Amount), CreatedAt: t.CreatedAt,
	}
}

func viewTransactions(ts []models.Transaction) []transactionView {
	out := make([]transactionView, 0, len(ts))
	for _, t := range ts {
		out = append(out, viewTransaction(t))
	}
	return out
}
