package memory

import (
	"context"
	"sort"
	"time"

	"github.com/baharkarakas/debtme-backend/internal/models"
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type employers db

func (r *employers) nameTaken(providerID, name, exceptID string) bool {
	for _, e := range r.employers {
		if e.CreatedBy == providerID && e.Name == name && e.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *employers) withCount(e models.Employer) models.Employer {
	e.PaymentCount = 0
	for _, p := range r.payments {
		if p.EmployerID == e.ID {
			e.PaymentCount++
		}
	}
	return e
}

func (r *employers) Create(_ context.Context, e models.Employer) (models.Employer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(e.CreatedBy, e.Name, "") {
		return models.Employer{}, repo.ErrDuplicate
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = r.now()
	r.employers[e.ID] = e
	return r.withCount(e), nil
}

func (r *employers) GetByID(_ context.Context, providerID, id string) (models.Employer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.employers[id]
	if !ok || e.CreatedBy != providerID {
		return models.Employer{}, repo.ErrNotFound
	}
	return r.withCount(e), nil
}

func (r *employers) ListByProvider(_ context.Context, providerID string) ([]models.Employer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Employer
	for _, e := range r.employers {
		if e.CreatedBy == providerID {
			out = append(out, r.withCount(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *employers) Update(_ context.Context, e models.Employer) (models.Employer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.employers[e.ID]
	if !ok || cur.CreatedBy != e.CreatedBy {
		return models.Employer{}, repo.ErrNotFound
	}
	if r.nameTaken(e.CreatedBy, e.Name, e.ID) {
		return models.Employer{}, repo.ErrDuplicate
	}
	cur.Name = e.Name
	cur.ContactInfo = e.ContactInfo
	r.employers[e.ID] = cur
	return r.withCount(cur), nil
}

func (r *employers) Delete(_ context.Context, providerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employers[id]
	if !ok || e.CreatedBy != providerID {
		return repo.ErrNotFound
	}
	delete(r.employers, id)
	for pid, p := range r.payments {
		if p.EmployerID == id {
			delete(r.payments, pid)
		}
	}
	return nil
}

type workPayments db

func (r *workPayments) withEmployer(p models.WorkPayment) models.WorkPayment {
	p.EmployerName = r.employers[p.EmployerID].Name
	return p
}

func (r *workPayments) Create(_ context.Context, p models.WorkPayment) (models.WorkPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employers[p.EmployerID]; !ok {
		return models.WorkPayment{}, repo.ErrNotFound
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = r.now()
	r.payments[p.ID] = p
	return r.withEmployer(p), nil
}

func (r *workPayments) GetByID(_ context.Context, providerID, id string) (models.WorkPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok || p.ProviderID != providerID {
		return models.WorkPayment{}, repo.ErrNotFound
	}
	return r.withEmployer(p), nil
}

func (r *workPayments) ListByProvider(_ context.Context, providerID string) ([]models.WorkPayment, error) {
	return r.filter(func(p models.WorkPayment) bool { return p.ProviderID == providerID }), nil
}

func (r *workPayments) ListByEmployer(_ context.Context, providerID, employerID string) ([]models.WorkPayment, error) {
	return r.filter(func(p models.WorkPayment) bool {
		return p.ProviderID == providerID && p.EmployerID == employerID
	}), nil
}

func (r *workPayments) filter(match func(models.WorkPayment) bool) []models.WorkPayment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.WorkPayment
	for _, p := range r.payments {
		if match(p) {
			out = append(out, r.withEmployer(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.After(out[j].PaymentDate) })
	return out
}

func (r *workPayments) CountByEmployer(_ context.Context, employerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.payments {
		if p.EmployerID == employerID {
			n++
		}
	}
	return n, nil
}

func (r *workPayments) Update(_ context.Context, p models.WorkPayment) (models.WorkPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.payments[p.ID]
	if !ok || cur.ProviderID != p.ProviderID {
		return models.WorkPayment{}, repo.ErrNotFound
	}
	cur.Amount = p.Amount
	cur.Description = p.Description
	cur.PaymentDate = p.PaymentDate
	r.payments[p.ID] = cur
	return r.withEmployer(cur), nil
}

func (r *workPayments) Delete(_ context.Context, providerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.ProviderID != providerID {
		return repo.ErrNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *workPayments) Summary(_ context.Context, providerID string) (int, decimal.Decimal, *time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		n     int
		total = decimal.Zero
		last  *time.Time
	)
	for _, p := range r.payments {
		if p.ProviderID != providerID {
			continue
		}
		n++
		total = total.Add(p.Amount)
		if last == nil || p.PaymentDate.After(*last) {
			d := p.PaymentDate
			last = &d
		}
	}
	return n, total, last, nil
}
