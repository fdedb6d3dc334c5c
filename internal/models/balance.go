package models

import "github.com/shopspring/decimal"

// BalanceSummary aggregates confirmed records of one user/provider pair.
type BalanceSummary struct {
	UserID        string          `json:"user_id"`
	ProviderID    string          `json:"provider_id"`
	TotalDebt     decimal.Decimal `json:"total_debt"`
	TotalPayments decimal.Decimal `json:"total_payments"`
	Balance       decimal.Decimal `json:"balance"`
}

func NewBalanceSummary(userID, providerID string, debt, payments decimal.Decimal) BalanceSummary {
	return BalanceSummary{
		UserID:        userID,
		ProviderID:    providerID,
		TotalDebt:     debt,
		TotalPayments: payments,
		Balance:       debt.Sub(payments),
	}
}
