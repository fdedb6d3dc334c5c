package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/baharkarakas/debtme-backend/internal/api/validate"
	"github.com/baharkarakas/debtme-backend/internal/models"
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/shopspring/decimal"
)

// EmployerService is the payer provider's book of employers and the work
// payments received from them. Plain bookkeeping; no approvals.
type EmployerService struct {
	employers repo.Employers
	payments  repo.WorkPayments
	audit     *Auditor
	opts      Options
}

func NewEmployerService(e repo.Employers, p repo.WorkPayments, a *Auditor, opts Options) *EmployerService {
	return &EmployerService{employers: e, payments: p, audit: a, opts: opts}
}

func payerOnly(p models.Identity) error {
	if !p.Caps.CanManageEmployers {
		return permission("only payer providers manage employers")
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ---------- employers ----------

func (s *EmployerService) CreateEmployer(ctx context.Context, p models.Identity, name string, contact *string) (models.Employer, error) {
	if err := payerOnly(p); err != nil {
		return models.Employer{}, err
	}
	name = strings.TrimSpace(name)
	if err := validate.Collect(validate.Required("name", name)); err != nil {
		return models.Employer{}, invalid(err)
	}
	e, err := s.employers.Create(ctx, models.Employer{Name: name, ContactInfo: trimmed(contact), CreatedBy: p.ID})
	if errors.Is(err, repo.ErrDuplicate) {
		return models.Employer{}, conflict("employer with this name already exists")
	}
	return e, err
}

func (s *EmployerService) ListEmployers(ctx context.Context, p models.Identity) ([]models.Employer, error) {
	if err := payerOnly(p); err != nil {
		return nil, err
	}
	return s.employers.ListByProvider(ctx, p.ID)
}

func (s *EmployerService) GetEmployer(ctx context.Context, p models.Identity, id string) (models.Employer, error) {
	if err := payerOnly(p); err != nil {
		return models.Employer{}, err
	}
	e, err := s.employers.GetByID(ctx, p.ID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Employer{}, notFound("employer not found")
	}
	return e, err
}

// UpdateEmployer changes only the fields that are non-nil.
func (s *EmployerService) UpdateEmployer(ctx context.Context, p models.Identity, id string, name, contact *string) (models.Employer, error) {
	e, err := s.GetEmployer(ctx, p, id)
	if err != nil {
		return models.Employer{}, err
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if err := validate.Collect(validate.Required("name", n)); err != nil {
			return models.Employer{}, invalid(err)
		}
		e.Name = n
	}
	if contact != nil {
		e.ContactInfo = trimmed(contact)
	}
	e, err = s.employers.Update(ctx, e)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.Employer{}, conflict("employer with this name already exists")
	}
	return e, err
}

// DeleteEmployer refuses while work payments still reference the employer.
func (s *EmployerService) DeleteEmployer(ctx context.Context, p models.Identity, id string) error {
	if _, err := s.GetEmployer(ctx, p, id); err != nil {
		return err
	}
	n, err := s.payments.CountByEmployer(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflict("employer still has work payments; delete them first")
	}
	if err := s.employers.Delete(ctx, p.ID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("employer not found")
		}
		return err
	}
	s.audit.Record(p.ID, "employer", id, "deleted", nil)
	return nil
}

// ---------- work payments ----------

func (s *EmployerService) CreateWorkPayment(ctx context.Context, p models.Identity, employerID string, amount decimal.Decimal, description *string, paidAt *time.Time) (models.WorkPayment, error) {
	if _, err := s.GetEmployer(ctx, p, employerID); err != nil {
		return models.WorkPayment{}, err
	}
	if err := validate.Collect(validate.Amount("amount", amount)); err != nil {
		return models.WorkPayment{}, invalid(err)
	}
	date := s.opts.now().UTC()
	if paidAt != nil {
		date = *paidAt
	}
	wp, err := s.payments.Create(ctx, models.WorkPayment{
		EmployerID:  employerID,
		ProviderID:  p.ID,
		Amount:      amount,
		Description: trimmed(description),
		PaymentDate: date,
	})
	if err != nil {
		return models.WorkPayment{}, err
	}
	s.audit.Record(p.ID, "work_payment", wp.ID, "created", map[string]any{"amount": amount.StringFixed(2)})
	return wp, nil
}

func (s *EmployerService) ListWorkPayments(ctx context.Context, p models.Identity) ([]models.WorkPayment, error) {
	if err := payerOnly(p); err != nil {
		return nil, err
	}
	return s.payments.ListByProvider(ctx, p.ID)
}

func (s *EmployerService) ListEmployerPayments(ctx context.Context, p models.Identity, employerID string) ([]models.WorkPayment, error) {
	if _, err := s.GetEmployer(ctx, p, employerID); err != nil {
		return nil, err
	}
	return s.payments.ListByEmployer(ctx, p.ID, employerID)
}

func (s *EmployerService) GetWorkPayment(ctx context.Context, p models.Identity, id string) (models.WorkPayment, error) {
	if err := payerOnly(p); err != nil {
		return models.WorkPayment{}, err
	}
	wp, err := s.payments.GetByID(ctx, p.ID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.WorkPayment{}, notFound("work payment not found")
	}
	return wp, err
}

// UpdateWorkPayment changes only the fields that are non-nil. The employer is fixed.
func (s *EmployerService) UpdateWorkPayment(ctx context.Context, p models.Identity, id string, amount *decimal.Decimal, description *string, paidAt *time.Time) (models.WorkPayment, error) {
	wp, err := s.GetWorkPayment(ctx, p, id)
	if err != nil {
		return models.WorkPayment{}, err
	}
	if amount != nil {
		if err := validate.Collect(validate.Amount("amount", *amount)); err != nil {
			return models.WorkPayment{}, invalid(err)
		}
		wp.Amount = *amount
	}
	if description != nil {
		wp.Description = trimmed(description)
	}
	if paidAt != nil {
		wp.PaymentDate = *paidAt
	}
	return s.payments.Update(ctx, wp)
}

func (s *EmployerService) DeleteWorkPayment(ctx context.Context, p models.Identity, id string) error {
	if _, err := s.GetWorkPayment(ctx, p, id); err != nil {
		return err
	}
	if err := s.payments.Delete(ctx, p.ID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("work payment not found")
		}
		return err
	}
	s.audit.Record(p.ID, "work_payment", id, "deleted", nil)
	return nil
}

func (s *EmployerService) Summary(ctx context.Context, p models.Identity) (models.WorkPaymentSummary, error) {
	if err := payerOnly(p); err != nil {
		return models.WorkPaymentSummary{}, err
	}
	n, total, last, err := s.payments.Summary(ctx, p.ID)
	if err != nil {
		return models.WorkPaymentSummary{}, err
	}
	emps, err := s.employers.ListByProvider(ctx, p.ID)
	if err != nil {
		return models.WorkPaymentSummary{}, err
	}
	return models.WorkPaymentSummary{
		TotalPayments:   n,
		TotalAmount:     total,
		EmployersCount:  len(emps),
		LastPaymentDate: last,
	}, nil
}
