package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/baharkarakas/debtme-backend/internal/api/validate"
	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSetsStatusFromType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)

	debt, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("25.50"), models.TxnDebt)
	require.NoError(t, err)
	assert.Equal(t, models.TxnPending, debt.Status)

	pay, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("10"), models.TxnPayment)
	require.NoError(t, err)
	assert.Equal(t, models.TxnConfirmed, pay.Status)
	assert.Equal(t, f.lender.ID, pay.ProviderID)
}

func TestCreateRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)
	f.link(t, f.payer, f.client, models.LinkApproved)

	_, err := f.txns.Create(ctx, f.client, f.client.ID, amt("1"), models.TxnPayment)
	assert.ErrorIs(t, err, ErrPermission, "users cannot create")

	_, err = f.txns.Create(ctx, f.admin, f.client.ID, amt("1"), models.TxnPayment)
	assert.ErrorIs(t, err, ErrPermission, "admins cannot create")

	_, err = f.txns.Create(ctx, f.payer, f.client.ID, amt("1"), models.TxnDebt)
	assert.ErrorIs(t, err, ErrPermission, "payer cannot record debt")

	for _, bad := range []string{"0", "-3", "1.005"} {
		_, err = f.txns.Create(ctx, f.lender, f.client.ID, amt(bad), models.TxnDebt)
		assert.ErrorIs(t, err, ErrValidation, bad)
		var errs validate.Errs
		assert.True(t, errors.As(err, &errs))
	}

	_, err = f.txns.Create(ctx, f.lender, f.client.ID, amt("1"), "gift")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.txns.Create(ctx, f.lender, f.stranger.ID, amt("1"), models.TxnDebt)
	assert.ErrorIs(t, err, ErrConflict, "no link")
}

func TestPayerDebtForbiddenRegardlessOfLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.txns.Create(ctx, f.payer, f.client.ID, amt("5"), models.TxnDebt)
	assert.ErrorIs(t, err, ErrPermission)

	f.link(t, f.payer, f.client, models.LinkApproved)
	_, err = f.txns.Create(ctx, f.payer, f.client.ID, amt("5"), models.TxnDebt)
	assert.ErrorIs(t, err, ErrPermission)

	pay, err := f.txns.Create(ctx, f.payer, f.client.ID, amt("5"), models.TxnPayment)
	require.NoError(t, err)
	assert.Equal(t, models.TxnConfirmed, pay.Status)
}

func TestCreateLinkStatusPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("any link by default", func(t *testing.T) {
		f := newFixture(t)
		f.link(t, f.lender, f.client, models.LinkPending)
		_, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("5"), models.TxnDebt)
		assert.NoError(t, err)

		f.link(t, f.lender, f.stranger, models.LinkRejected)
		_, err = f.txns.Create(ctx, f.lender, f.stranger.ID, amt("5"), models.TxnDebt)
		assert.NoError(t, err)
	})

	t.Run("approved link when required", func(t *testing.T) {
		f := newFixture(t, func(o *Options) { o.RequireApprovedLink = true })
		f.link(t, f.lender, f.client, models.LinkPending)
		_, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("5"), models.TxnDebt)
		assert.ErrorIs(t, err, ErrConflict)

		f.link(t, f.lender, f.stranger, models.LinkApproved)
		_, err = f.txns.Create(ctx, f.lender, f.stranger.ID, amt("5"), models.TxnDebt)
		assert.NoError(t, err)
	})
}

func TestApproveDebtSucceedsExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)
	debt, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("100"), models.TxnDebt)
	require.NoError(t, err)

	got, err := f.txns.ApproveDebt(ctx, f.client, debt.ID, f.code())
	require.NoError(t, err)
	assert.Equal(t, models.TxnConfirmed, got.Status)
	assert.True(t, got.Amount.Equal(debt.Amount))

	_, err = f.txns.ApproveDebt(ctx, f.client, debt.ID, f.code())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestApproveDebtRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)
	debt, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("100"), models.TxnDebt)
	require.NoError(t, err)
	pay, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("1"), models.TxnPayment)
	require.NoError(t, err)

	_, err = f.txns.ApproveDebt(ctx, f.client, "missing", f.code())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.txns.ApproveDebt(ctx, f.stranger, debt.ID, f.code())
	assert.ErrorIs(t, err, ErrNotFound, "other users cannot see it")

	_, err = f.txns.ApproveDebt(ctx, f.client, pay.ID, f.code())
	assert.ErrorIs(t, err, ErrConflict, "payments are never pending")

	_, err = f.txns.ApproveDebt(ctx, f.client, debt.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	wrong := "000000"
	if f.code() == wrong {
		wrong = "111111"
	}
	_, err = f.txns.ApproveDebt(ctx, f.client, debt.ID, wrong)
	assert.ErrorIs(t, err, ErrPermission)

	// code from the previous window no longer works
	prev := f.code()
	f.now = f.now.Add(time.Minute)
	if prev != f.code() {
		_, err = f.txns.ApproveDebt(ctx, f.client, debt.ID, prev)
		assert.ErrorIs(t, err, ErrPermission)
	}

	still, err := f.txns.GetByID(ctx, f.client, debt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TxnPending, still.Status)
}

func TestApproveDebtWithoutProviderSecret(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lender2 := f.seed(t, "Lender Two", "l2@example.com", models.RoleProvider, models.KindLender, "")
	f.link(t, lender2, f.client, models.LinkApproved)
	debt, err := f.txns.Create(ctx, lender2, f.client.ID, amt("9"), models.TxnDebt)
	require.NoError(t, err)

	_, err = f.txns.ApproveDebt(ctx, f.client, debt.ID, "123456")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestApproveDebtWithoutOTPEnforcement(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.OTPRequired = false })
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)
	debt, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("9"), models.TxnDebt)
	require.NoError(t, err)

	got, err := f.txns.ApproveDebt(ctx, f.client, debt.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.TxnConfirmed, got.Status)
}

func TestApproveDebtConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)
	debt, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("42"), models.TxnDebt)
	require.NoError(t, err)
	code := f.code()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.txns.ApproveDebt(ctx, f.client, debt.ID, code)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, 19, conflicts)
}

func TestListForPairAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)
	first, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("1"), models.TxnDebt)
	require.NoError(t, err)
	second, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("2"), models.TxnPayment)
	require.NoError(t, err)

	for _, who := range []models.Identity{f.client, f.lender, f.admin} {
		list, err := f.txns.ListForPair(ctx, who, f.client.ID, f.lender.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)
	}

	_, err = f.txns.ListForPair(ctx, f.stranger, f.client.ID, f.lender.ID)
	assert.ErrorIs(t, err, ErrPermission)

	_, err = f.txns.ListForPair(ctx, f.payer, f.client.ID, f.lender.ID)
	assert.ErrorIs(t, err, ErrPermission)

	// named parties without a link
	_, err = f.txns.ListForPair(ctx, f.stranger, f.stranger.ID, f.lender.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// admins skip the link check
	list, err := f.txns.ListForPair(ctx, f.admin, f.stranger.ID, f.lender.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetByIDHidesForeignRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)
	tx, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("1"), models.TxnPayment)
	require.NoError(t, err)

	_, err = f.txns.GetByID(ctx, f.stranger, tx.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := f.txns.GetByID(ctx, f.admin, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)
}

func TestCreateIsAudited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)
	tx, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("3.10"), models.TxnPayment)
	require.NoError(t, err)

	var found bool
	for _, e := range f.store.AuditEntries() {
		if e.EntityType == "transaction" && *e.EntityID == tx.ID && e.Action == "created" {
			found = true
			assert.Equal(t, "3.10", e.Details["amount"])
		}
	}
	assert.True(t, found)
}
