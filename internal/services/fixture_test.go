package services

import (
	"context"
	"testing"
	"time"

	"github.com/baharkarakas/debtme-backend/internal/auth"
	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/otp"
	"github.com/baharkarakas/debtme-backend/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const lenderSecret = "3132333435363738393031323334353637383930"

type fixture struct {
	store *memory.Store
	now   time.Time
	opts  Options

	users    *UserService
	links    *LinkService
	txns     *TransactionService
	balances *BalanceService
	otps     *OTPService
	emps     *EmployerService

	lender, payer, client, stranger, admin models.Identity
}

func newFixture(t *testing.T, tweak ...func(*Options)) *fixture {
	t.Helper()
	f := &fixture{store: memory.New(), now: time.Date(2026, 5, 4, 10, 0, 30, 0, time.UTC)}
	f.opts = Options{OTPRequired: true, OTPIssuer: "DebtMe", Now: func() time.Time { return f.now }}
	for _, fn := range tweak {
		fn(&f.opts)
	}
	audit := NewAuditor(f.store.AuditLogs, nil)
	tm := auth.NewTokenManager("a", "r", "debtme-test", time.Minute, time.Hour)

	f.users = NewUserService(f.store.Users, tm, audit)
	f.links = NewLinkService(f.store.Links, f.store.Users, audit)
	f.txns = NewTransactionService(f.store.Transactions, f.store.Links, f.store.Secrets, audit, f.opts)
	f.balances = NewBalanceService(f.store.Transactions, f.store.Links)
	f.otps = NewOTPService(f.store.Users, audit, f.opts)
	f.emps = NewEmployerService(f.store.Employers, f.store.WorkPayments, audit, f.opts)

	f.lender = f.seed(t, "Lender", "lender@example.com", models.RoleProvider, models.KindLender, lenderSecret)
	f.payer = f.seed(t, "Payer", "payer@example.com", models.RoleProvider, models.KindPayer, "")
	f.client = f.seed(t, "Client", "client@example.com", models.RoleUser, models.KindNone, "")
	f.stranger = f.seed(t, "Stranger", "stranger@example.com", models.RoleUser, models.KindNone, "")
	f.admin = f.seed(t, "Admin", "admin@example.com", models.RoleAdmin, models.KindNone, "")
	return f
}

func (f *fixture) seed(t *testing.T, name, email string, role models.Role, kind models.ProviderKind, secret string) models.Identity {
	t.Helper()
	u, err := f.store.Users.Create(context.Background(), models.User{
		Name: name, Email: email, Role: role, ProviderKind: kind, OTPSecret: secret,
	})
	require.NoError(t, err)
	return u.Identity()
}

func (f *fixture) link(t *testing.T, provider, user models.Identity, status models.LinkStatus) models.Link {
	t.Helper()
	l, err := f.links.CreateLink(context.Background(), provider, user.ID)
	require.NoError(t, err)
	if status != models.LinkPending {
		l, err = f.links.SetLinkStatus(context.Background(), l.ID, user, status)
		require.NoError(t, err)
	}
	return l
}

func (f *fixture) code() string {
	c, err := otp.GenerateHex(lenderSecret, f.now)
	if err != nil {
		panic(err)
	}
	return c
}

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }
