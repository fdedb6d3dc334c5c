package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employer is a party that pays a payer provider for work. Employers have no account.
type Employer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactInfo  *string   `json:"contact_info,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	PaymentCount int       `json:"payment_count"`
}

type WorkPayment struct {
	ID           string          `json:"id"`
	EmployerID   string          `json:"employer_id"`
	EmployerName string          `json:"employer_name"`
	ProviderID   string          `json:"provider_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  *string         `json:"description,omitempty"`
	PaymentDate  time.Time       `json:"payment_date"`
	CreatedAt    time.Time       `json:"created_at"`
}

type WorkPaymentSummary struct {
	TotalPayments   int             `json:"total_payments"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	EmployersCount  int             `json:"employers_count"`
	LastPaymentDate *time.Time      `json:"last_payment_date"`
}
