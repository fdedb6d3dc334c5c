package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string
const (
	TxnDebt    TransactionType = "debt"
	TxnPayment TransactionType = "payment"
)

func (t TransactionType) Valid() bool { return t == TxnDebt || t == TxnPayment }

type TransactionStatus string
const (
	TxnPending   TransactionStatus = "pending"
	TxnConfirmed TransactionStatus = "confirmed"
)

// InitialStatus is the status a new record of type t starts in.
func InitialStatus(t TransactionType) TransactionStatus {
	if t == TxnDebt {
		return TxnPending
	}
	return TxnConfirmed
}

type Transaction struct {
	ID         string            `json:"id"`
	Seq        int64             `json:"-"`
	UserID     string            `json:"user_id"`
	ProviderID string            `json:"provider_id"`
	Amount     decimal.Decimal   `json:"amount"`
	Type       TransactionType   `json:"type"`
	Status     TransactionStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}
