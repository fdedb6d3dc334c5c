package services

import (
	"context"
	"testing"

	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBalanceExcludesPendingDebt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)

	debt, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("100.00"), models.TxnDebt)
	require.NoError(t, err)
	_, err = f.txns.ApproveDebt(ctx, f.client, debt.ID, f.code())
	require.NoError(t, err)
	_, err = f.txns.Create(ctx, f.lender, f.client.ID, amt("40.00"), models.TxnPayment)
	require.NoError(t, err)
	_, err = f.txns.Create(ctx, f.lender, f.client.ID, amt("500.00"), models.TxnDebt)
	require.NoError(t, err)

	b, err := f.balances.Compute(ctx, f.client, f.client.ID, f.lender.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", b.TotalDebt.StringFixed(2))
	assert.Equal(t, "40.00", b.TotalPayments.StringFixed(2))
	assert.Equal(t, "60.00", b.Balance.StringFixed(2))
}

func TestComputeBalanceEmptyPairIsZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkPending)

	b, err := f.balances.Compute(ctx, f.lender, f.client.ID, f.lender.ID)
	require.NoError(t, err)
	assert.True(t, b.TotalDebt.IsZero())
	assert.True(t, b.TotalPayments.IsZero())
	assert.True(t, b.Balance.IsZero())
}

func TestComputeBalanceCanGoNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)
	_, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("0.10"), models.TxnPayment)
	require.NoError(t, err)
	_, err = f.txns.Create(ctx, f.lender, f.client.ID, amt("0.20"), models.TxnPayment)
	require.NoError(t, err)

	b, err := f.balances.Compute(ctx, f.admin, f.client.ID, f.lender.ID)
	require.NoError(t, err)
	assert.Equal(t, "-0.30", b.Balance.StringFixed(2))
}

func TestComputeBalanceAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)

	_, err := f.balances.Compute(ctx, f.stranger, f.client.ID, f.lender.ID)
	assert.ErrorIs(t, err, ErrPermission)

	_, err = f.balances.Compute(ctx, f.payer, f.client.ID, f.payer.ID)
	assert.ErrorIs(t, err, ErrConflict)
}
