package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/baharkarakas/debtme-backend/internal/api/validate"
	"github.com/baharkarakas/debtme-backend/internal/metrics"
	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/otp"
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/shopspring/decimal"
)

type TransactionService struct {
	trx     repo.Transactions
	links   repo.Links
	secrets repo.SecretStore
	access  pairAccess
	audit   *Auditor
	opts    Options
}

func NewTransactionService(t repo.Transactions, l repo.Links, sec repo.SecretStore, a *Auditor, opts Options) *TransactionService {
	return &TransactionService{trx: t, links: l, secrets: sec, access: pairAccess{links: l}, audit: a, opts: opts}
}

func failed(op, reason string) { metrics.TransactionsFailed.WithLabelValues(op, reason).Inc() }

// ----------------- CREATE -----------------

// Create records a debt or payment from provider to userID. Debts start
// pending until the user approves them; payments are confirmed at once.
func (s *TransactionService) Create(ctx context.Context, provider models.Identity, userID string, amount decimal.Decimal, t models.TransactionType) (models.Transaction, error) {
	caps := provider.Caps
	if !caps.CanCreateDebt && !caps.CanCreatePayment {
		failed("create", "role")
		return models.Transaction{}, permission("only providers can create transactions")
	}
	if err := validate.Collect(
		validate.Required("user_id", userID),
		validate.OneOf("type", string(t), string(models.TxnDebt), string(models.TxnPayment)),
	); err != nil {
		failed("create", "invalid")
		return models.Transaction{}, invalid(err)
	}
	if t == models.TxnDebt && !caps.CanCreateDebt {
		failed("create", "kind")
		return models.Transaction{}, permission("payer providers can only record payments")
	}
	if t == models.TxnPayment && !caps.CanCreatePayment {
		failed("create", "kind")
		return models.Transaction{}, permission("provider cannot record payments")
	}
	if err := validate.Collect(validate.Amount("amount", amount)); err != nil {
		failed("create", "amount")
		return models.Transaction{}, invalid(err)
	}

	link, err := s.links.GetByPair(ctx, userID, provider.ID)
	if errors.Is(err, repo.ErrNotFound) {
		failed("create", "no_link")
		return models.Transaction{}, conflict("link does not exist")
	}
	if err != nil {
		return models.Transaction{}, err
	}
	if s.opts.RequireApprovedLink && link.Status != models.LinkApproved {
		failed("create", "link_not_approved")
		return models.Transaction{}, conflict("link is not approved")
	}

	tx, err := s.trx.Create(ctx, models.Transaction{
		UserID:     userID,
		ProviderID: provider.ID,
		Amount:     amount,
		Type:       t,
		Status:     models.InitialStatus(t),
	})
	if err != nil {
		return models.Transaction{}, err
	}
	metrics.TransactionsTotal.WithLabelValues(string(t)).Inc()
	s.audit.Record(provider.ID, "transaction", tx.ID, "created", map[string]any{
		"type": t, "amount": amount.StringFixed(2), "user_id": userID,
	})
	return tx, nil
}

// ----------------- APPROVE -----------------

// ApproveDebt confirms a pending debt owed by user. With OTPRequired the
// caller must present the provider's code for the current window.
func (s *TransactionService) ApproveDebt(ctx context.Context, user models.Identity, txID, code string) (models.Transaction, error) {
	tx, err := s.trx.GetByID(ctx, txID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && tx.UserID != user.ID) {
		return models.Transaction{}, notFound("transaction not found")
	}
	if err != nil {
		return models.Transaction{}, err
	}
	if !user.Caps.CanApproveDebt {
		return models.Transaction{}, permission("only clients can approve debts")
	}
	if tx.Type != models.TxnDebt || tx.Status != models.TxnPending {
		metrics.DebtApprovals.WithLabelValues("conflict").Inc()
		return models.Transaction{}, conflict("transaction is not a pending debt")
	}

	if s.opts.OTPRequired {
		if err := s.checkCode(ctx, tx.ProviderID, code); err != nil {
			return models.Transaction{}, err
		}
	}

	tx, err = s.trx.ConfirmPendingDebt(ctx, txID)
	if errors.Is(err, repo.ErrStateChanged) {
		metrics.DebtApprovals.WithLabelValues("conflict").Inc()
		return models.Transaction{}, conflict("transaction is not a pending debt")
	}
	if err != nil {
		return models.Transaction{}, err
	}
	metrics.DebtApprovals.WithLabelValues("confirmed").Inc()
	s.audit.Record(user.ID, "transaction", tx.ID, "debt_approved", nil)
	return tx, nil
}

func (s *TransactionService) checkCode(ctx context.Context, providerID, code string) error {
	if err := validate.Collect(validate.Required("code", code)); err != nil {
		return invalid(err)
	}
	secret, err := s.secrets.OTPSecret(ctx, providerID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	if secret == "" {
		return conflict("provider has not set up one-time codes")
	}
	ok, err := otp.Verify(secret, code, s.opts.now())
	if err != nil {
		return fmt.Errorf("provider %s otp secret: %w", providerID, err)
	}
	if !ok {
		metrics.DebtApprovals.WithLabelValues("bad_code").Inc()
		return permission("invalid one-time code")
	}
	return nil
}

// ----------------- QUERIES -----------------

func (s *TransactionService) ListForPair(ctx context.Context, requester models.Identity, userID, providerID string) ([]models.Transaction, error) {
	if err := s.access.authorize(ctx, requester, userID, providerID); err != nil {
		return nil, err
	}
	txs, err := s.trx.ListByPair(ctx, userID, providerID)
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, err
}

// GetByID hides records the requester is not a party to.
func (s *TransactionService) GetByID(ctx context.Context, requester models.Identity, id string) (models.Transaction, error) {
	tx, err := s.trx.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Transaction{}, notFound("transaction not found")
	}
	if err != nil {
		return models.Transaction{}, err
	}
	if !requester.IsAdmin() && requester.ID != tx.UserID && requester.ID != tx.ProviderID {
		return models.Transaction{}, notFound("transaction not found")
	}
	return tx, nil
}
