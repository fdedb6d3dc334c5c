package models

type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

type ProviderKind string

const (
	KindNone   ProviderKind = ""
	KindLender ProviderKind = "lender"
	KindPayer  ProviderKind = "payer"
)

func (k ProviderKind) Valid() bool { return k == KindLender || k == KindPayer }

// Capabilities is what an identity may do, resolved once from role and kind.
type Capabilities struct {
	CanInvite          bool `json:"can_invite"`
	CanCreateDebt      bool `json:"can_create_debt"`
	CanCreatePayment   bool `json:"can_create_payment"`
	CanApproveLink     bool `json:"can_approve_link"`
	CanApproveDebt     bool `json:"can_approve_debt"`
	CanManageEmployers bool `json:"can_manage_employers"`
	CanAdminister      bool `json:"can_administer"`
}

func CapabilitiesFor(role Role, kind ProviderKind) Capabilities {
	switch role {
	case RoleUser:
		return Capabilities{CanApproveLink: true, CanApproveDebt: true}
	case RoleProvider:
		c := Capabilities{CanInvite: true, CanCreatePayment: true}
		switch kind {
		case KindLender:
			c.CanCreateDebt = true
		case KindPayer:
			c.CanManageEmployers = true
		}
		return c
	case RoleAdmin:
		return Capabilities{CanAdminister: true}
	}
	return Capabilities{}
}

// Identity is an authenticated caller.
type Identity struct {
	ID   string
	Role Role
	Kind ProviderKind
	Caps Capabilities
}

func NewIdentity(id string, role Role, kind ProviderKind) Identity {
	if role != RoleProvider {
		kind = KindNone
	}
	return Identity{ID: id, Role: role, Kind: kind, Caps: CapabilitiesFor(role, kind)}
}

func (i Identity) IsAdmin() bool { return i.Caps.CanAdminister }
