package services

import (
	"context"

	"github.com/baharkarakas/debtme-backend/internal/models"
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
)

type BalanceService struct {
	trx    repo.Transactions
	access pairAccess
}

func NewBalanceService(t repo.Transactions, l repo.Links) *BalanceService {
	return &BalanceService{trx: t, access: pairAccess{links: l}}
}

// Compute sums confirmed records only; pending debts do not count until approved.
func (s *BalanceService) Compute(ctx context.Context, requester models.Identity, userID, providerID string) (models.BalanceSummary, error) {
	if err := s.access.authorize(ctx, requester, userID, providerID); err != nil {
		return models.BalanceSummary{}, err
	}
	debt, err := s.trx.SumConfirmed(ctx, userID, providerID, models.TxnDebt)
	if err != nil {
		return models.BalanceSummary{}, err
	}
	paid, err := s.trx.SumConfirmed(ctx, userID, providerID, models.TxnPayment)
	if err != nil {
		return models.BalanceSummary{}, err
	}
	return models.NewBalanceSummary(userID, providerID, debt, paid), nil
}
