// Package memory is an in-process implementation of the repository
// interfaces. It backs APP_STORE=memory and the service tests, and keeps the
// same uniqueness and conditional-update guarantees as the postgres store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/baharkarakas/debtme-backend/internal/models"
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type db struct {
	mu           sync.RWMutex
	now          func() time.Time
	seq          int64
	users        map[string]models.User
	links        map[string]models.Link
	pairs        map[[2]string]string
	transactions map[string]models.Transaction
	audit        []models.AuditLog
	employers    map[string]models.Employer
	payments     map[string]models.WorkPayment
}

// Store wraps the shared tables so tests can inspect audit entries.
type Store struct {
	repo.Store
	d *db
}

func New() *Store {
	d := &db{
		now:          time.Now,
		users:        map[string]models.User{},
		links:        map[string]models.Link{},
		pairs:        map[[2]string]string{},
		transactions: map[string]models.Transaction{},
		employers:    map[string]models.Employer{},
		payments:     map[string]models.WorkPayment{},
	}
	return &Store{
		d: d,
		Store: repo.Store{
			Users:        (*users)(d),
			Secrets:      (*users)(d),
			Links:        (*links)(d),
			Transactions: (*transactions)(d),
			AuditLogs:    (*auditLogs)(d),
			Employers:    (*employers)(d),
			WorkPayments: (*workPayments)(d),
		},
	}
}

// AuditEntries returns a copy of what has been written to the audit log.
func (s *Store) AuditEntries() []models.AuditLog {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return append([]models.AuditLog(nil), s.d.audit...)
}

// ---------- users ----------

type users db

func (r *users) Create(_ context.Context, u models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, repo.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = r.now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	return u, nil
}

func (r *users) GetByID(_ context.Context, id string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *users) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r *users) List(_ context.Context, limit, offset int) ([]models.User, error) {
	r.mu.RLock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *users) SetOTPSecret(_ context.Context, id, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.OTPSecret = secret
	u.UpdatedAt = r.now()
	r.users[id] = u
	return nil
}

func (r *users) OTPSecret(ctx context.Context, providerID string) (string, error) {
	u, err := r.GetByID(ctx, providerID)
	return u.OTPSecret, err
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

// ---------- links ----------

type links db

func (r *links) CreateIfAbsent(_ context.Context, userID, providerID string) (models.Link, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{userID, providerID}
	if id, ok := r.pairs[key]; ok {
		return r.links[id], false, nil
	}
	now := r.now()
	l := models.Link{
		ID:         uuid.NewString(),
		UserID:     userID,
		ProviderID: providerID,
		Status:     models.LinkPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.links[l.ID] = l
	r.pairs[key] = l.ID
	return l, true, nil
}

func (r *links) GetByID(_ context.Context, id string) (models.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.links[id]
	if !ok {
		return models.Link{}, repo.ErrNotFound
	}
	return l, nil
}

func (r *links) GetByPair(_ context.Context, userID, providerID string) (models.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.pairs[[2]string{userID, providerID}]
	if !ok {
		return models.Link{}, repo.ErrNotFound
	}
	return r.links[id], nil
}

func (r *links) UpdatePendingStatus(_ context.Context, id string, status models.LinkStatus) (models.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.links[id]
	if !ok || l.Status != models.LinkPending {
		return models.Link{}, repo.ErrStateChanged
	}
	l.Status = status
	l.UpdatedAt = r.now()
	r.links[id] = l
	return l, nil
}

func (r *links) ListByUser(_ context.Context, userID string, status *models.LinkStatus) ([]models.Link, error) {
	return r.filter(func(l models.Link) bool { return l.UserID == userID }, status), nil
}

func (r *links) ListByProvider(_ context.Context, providerID string, status *models.LinkStatus) ([]models.Link, error) {
	return r.filter(func(l models.Link) bool { return l.ProviderID == providerID }, status), nil
}

func (r *links) filter(match func(models.Link) bool, status *models.LinkStatus) []models.Link {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Link
	for _, l := range r.links {
		if match(l) && (status == nil || l.Status == *status) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ---------- transactions ----------

type transactions db

func (r *transactions) Create(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if _, ok := r.transactions[tx.ID]; ok {
		return models.Transaction{}, repo.ErrDuplicate
	}
	r.seq++
	tx.Seq = r.seq
	tx.CreatedAt = r.now()
	r.transactions[tx.ID] = tx
	return tx, nil
}

func (r *transactions) GetByID(_ context.Context, id string) (models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.transactions[id]
	if !ok {
		return models.Transaction{}, repo.ErrNotFound
	}
	return tx, nil
}

func (r *transactions) ListByPair(_ context.Context, userID, providerID string) ([]models.Transaction, error) {
	r.mu.RLock()
	var out []models.Transaction
	for _, tx := range r.transactions {
		if tx.UserID == userID && tx.ProviderID == providerID {
			out = append(out, tx)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *transactions) ConfirmPendingDebt(_ context.Context, id string) (models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok || tx.Type != models.TxnDebt || tx.Status != models.TxnPending {
		return models.Transaction{}, repo.ErrStateChanged
	}
	tx.Status = models.TxnConfirmed
	r.transactions[id] = tx
	return tx, nil
}

func (r *transactions) SumConfirmed(_ context.Context, userID, providerID string, t models.TransactionType) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for _, tx := range r.transactions {
		if tx.UserID == userID && tx.ProviderID == providerID && tx.Type == t && tx.Status == models.TxnConfirmed {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

// ---------- audit ----------

type auditLogs db

func (r *auditLogs) Create(_ context.Context, l models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = r.now()
	r.audit = append(r.audit, l)
	return nil
}
