package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesFor(t *testing.T) {
	lender := CapabilitiesFor(RoleProvider, KindLender)
	assert.True(t, lender.CanInvite)
	assert.True(t, lender.CanCreateDebt)
	assert.True(t, lender.CanCreatePayment)
	assert.False(t, lender.CanManageEmployers)

	payer := CapabilitiesFor(RoleProvider, KindPayer)
	assert.False(t, payer.CanCreateDebt)
	assert.True(t, payer.CanCreatePayment)
	assert.True(t, payer.CanManageEmployers)

	user := CapabilitiesFor(RoleUser, KindNone)
	assert.True(t, user.CanApproveDebt)
	assert.True(t, user.CanApproveLink)
	assert.False(t, user.CanInvite)

	assert.True(t, CapabilitiesFor(RoleAdmin, KindNone).CanAdminister)
	assert.Equal(t, Capabilities{}, CapabilitiesFor("ghost", KindNone))
}

func TestNewIdentityDropsKindForNonProviders(t *testing.T) {
	id := NewIdentity("u1", RoleUser, KindLender)
	assert.Equal(t, KindNone, id.Kind)
	assert.False(t, id.Caps.CanCreateDebt)
}

func TestUserValidate(t *testing.T) {
	u := User{Name: "Ada", Email: "ada@example.com"}
	assert.NoError(t, u.Validate())
	assert.Equal(t, RoleUser, u.Role)

	p := User{Name: "Bank", Email: "bank@example.com", Role: RoleProvider}
	assert.Error(t, p.Validate())
	p.ProviderKind = KindLender
	assert.NoError(t, p.Validate())

	bad := User{Name: "x", Email: "nope"}
	assert.Error(t, bad.Validate())
}
