package services

import (
	"context"
	"strings"
	"testing"

	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSecretRotatesProviderSecret(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.link(t, f.lender, f.client, models.LinkApproved)
	debt, err := f.txns.Create(ctx, f.lender, f.client.ID, amt("12"), models.TxnDebt)
	require.NoError(t, err)
	oldCode := f.code()

	prov, err := f.otps.InitSecret(ctx, f.lender)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prov.URI, "otpauth://totp/DebtMe:lender@example.com?"))
	assert.NotEmpty(t, prov.QRPNG)
	assert.Equal(t, 60, prov.Period)
	assert.Equal(t, 6, prov.Digits)

	secret, err := f.store.Secrets.OTPSecret(ctx, f.lender.ID)
	require.NoError(t, err)
	assert.NotEqual(t, lenderSecret, secret)

	newCode, err := otp.GenerateHex(secret, f.now)
	require.NoError(t, err)
	if newCode != oldCode {
		_, err = f.txns.ApproveDebt(ctx, f.client, debt.ID, oldCode)
		assert.ErrorIs(t, err, ErrPermission, "old secret no longer accepted")
	}
	_, err = f.txns.ApproveDebt(ctx, f.client, debt.ID, newCode)
	assert.NoError(t, err)
}

func TestInitSecretProvidersOnly(t *testing.T) {
	f := newFixture(t)
	_, err := f.otps.InitSecret(context.Background(), f.client)
	assert.ErrorIs(t, err, ErrPermission)
	_, err = f.otps.InitSecret(context.Background(), f.admin)
	assert.ErrorIs(t, err, ErrPermission)
}
