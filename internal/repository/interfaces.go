package repository

import (
	"context"
	"errors"
	"time"

	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is a unique constraint hit.
	ErrDuplicate = errors.New("duplicate")
	// ErrStateChanged means a conditional update matched no row.
	ErrStateChanged = errors.New("state changed")
)

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	SetOTPSecret(ctx context.Context, id, secret string) error
}

// SecretStore supplies provider one-time code secrets.
type SecretStore interface {
	OTPSecret(ctx context.Context, providerID string) (string, error)
}

type Links interface {
	// CreateIfAbsent inserts a pending link or returns the one already stored for the pair.
	CreateIfAbsent(ctx context.Context, userID, providerID string) (l models.Link, created bool, err error)
	GetByID(ctx context.Context, id string) (models.Link, error)
	GetByPair(ctx context.Context, userID, providerID string) (models.Link, error)
	// UpdatePendingStatus moves a pending link to status; ErrStateChanged if it is no longer pending.
	UpdatePendingStatus(ctx context.Context, id string, status models.LinkStatus) (models.Link, error)
	ListByUser(ctx context.Context, userID string, status *models.LinkStatus) ([]models.Link, error)
	ListByProvider(ctx context.Context, providerID string, status *models.LinkStatus) ([]models.Link, error)
}

type Transactions interface {
	Create(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	GetByID(ctx context.Context, id string) (models.Transaction, error)
	ListByPair(ctx context.Context, userID, providerID string) ([]models.Transaction, error)
	// ConfirmPendingDebt flips a pending debt to confirmed; ErrStateChanged if it is not pending.
	ConfirmPendingDebt(ctx context.Context, id string) (models.Transaction, error)
	SumConfirmed(ctx context.Context, userID, providerID string, t models.TransactionType) (decimal.Decimal, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}

type Employers interface {
	Create(ctx context.Context, e models.Employer) (models.Employer, error)
	GetByID(ctx context.Context, providerID, id string) (models.Employer, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Employer, error)
	Update(ctx context.Context, e models.Employer) (models.Employer, error)
	Delete(ctx context.Context, providerID, id string) error
}

type WorkPayments interface {
	Create(ctx context.Context, p models.WorkPayment) (models.WorkPayment, error)
	GetByID(ctx context.Context, providerID, id string) (models.WorkPayment, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.WorkPayment, error)
	ListByEmployer(ctx context.Context, providerID, employerID string) ([]models.WorkPayment, error)
	CountByEmployer(ctx context.Context, employerID string) (int, error)
	Update(ctx context.Context, p models.WorkPayment) (models.WorkPayment, error)
	Delete(ctx context.Context, providerID, id string) error
	Summary(ctx context.Context, providerID string) (count int, total decimal.Decimal, last *time.Time, err error)
}

// Store bundles every repository a service graph needs.
type Store struct {
	Users        Users
	Secrets      SecretStore
	Links        Links
	Transactions Transactions
	AuditLogs    AuditLogs
	Employers    Employers
	WorkPayments WorkPayments
}
