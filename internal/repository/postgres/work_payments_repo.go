package postgres

import (
	"context"
	"time"

	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type workPaymentsRepo struct{ pool *pgxpool.Pool }

const workPaymentCols = `wp.id, wp.employer_id, e.name, wp.provider_id, wp.amount::text, wp.description, wp.payment_date, wp.created_at`
const workPaymentFrom = ` FROM work_payments wp JOIN employers e ON e.id = wp.employer_id `

func scanWorkPayment(row pgx.Row) (models.WorkPayment, error) {
	var (
		p   models.WorkPayment
		amt string
	)
	if err := row.Scan(&p.ID, &p.EmployerID, &p.EmployerName, &p.ProviderID, &amt, &p.Description, &p.PaymentDate, &p.CreatedAt); err != nil {
		return models.WorkPayment{}, mapErr(err)
	}
	var err error
	p.Amount, err = parseAmount(amt)
	return p, err
}

func (r *workPaymentsRepo) Create(ctx context.Context, p models.WorkPayment) (models.WorkPayment, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if !validIDs(p.ID, p.EmployerID, p.ProviderID) {
		return models.WorkPayment{}, repository.ErrNotFound
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO work_payments(id, employer_id, provider_id, amount, description, payment_date)
		 VALUES($1,$2,$3,$4::numeric,$5,$6)`,
		p.ID, p.EmployerID, p.ProviderID, p.Amount.String(), p.Description, p.PaymentDate)
	if err != nil {
		return models.WorkPayment{}, mapErr(err)
	}
	return r.GetByID(ctx, p.ProviderID, p.ID)
}

func (r *workPaymentsRepo) GetByID(ctx context.Context, providerID, id string) (models.WorkPayment, error) {
	if !validIDs(providerID, id) {
		return models.WorkPayment{}, repository.ErrNotFound
	}
	return scanWorkPayment(r.pool.QueryRow(ctx,
		`SELECT `+workPaymentCols+workPaymentFrom+`WHERE wp.id=$1 AND wp.provider_id=$2`, id, providerID))
}

func (r *workPaymentsRepo) ListByProvider(ctx context.Context, providerID string) ([]models.WorkPayment, error) {
	if !validIDs(providerID) {
		return nil, nil
	}
	return r.list(ctx, `WHERE wp.provider_id=$1`, providerID)
}

func (r *workPaymentsRepo) ListByEmployer(ctx context.Context, providerID, employerID string) ([]models.WorkPayment, error) {
	if !validIDs(providerID, employerID) {
		return nil, nil
	}
	return r.list(ctx, `WHERE wp.provider_id=$1 AND wp.employer_id=$2`, providerID, employerID)
}

func (r *workPaymentsRepo) list(ctx context.Context, where string, args ...any) ([]models.WorkPayment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+workPaymentCols+workPaymentFrom+where+` ORDER BY wp.payment_date DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkPayment
	for rows.Next() {
		p, err := scanWorkPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *workPaymentsRepo) CountByEmployer(ctx context.Context, employerID string) (int, error) {
	if !validIDs(employerID) {
		return 0, nil
	}
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM work_payments WHERE employer_id=$1`, employerID).Scan(&n)
	return n, err
}

func (r *workPaymentsRepo) Update(ctx context.Context, p models.WorkPayment) (models.WorkPayment, error) {
	if !validIDs(p.ID, p.ProviderID) {
		return models.WorkPayment{}, repository.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE work_payments SET amount=$3::numeric, description=$4, payment_date=$5
		  WHERE id=$1 AND provider_id=$2`,
		p.ID, p.ProviderID, p.Amount.String(), p.Description, p.PaymentDate)
	if err != nil {
		return models.WorkPayment{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.WorkPayment{}, mapErr(pgx.ErrNoRows)
	}
	return r.GetByID(ctx, p.ProviderID, p.ID)
}

func (r *workPaymentsRepo) Delete(ctx context.Context, providerID, id string) error {
	if !validIDs(providerID, id) {
		return repository.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM work_payments WHERE id=$1 AND provider_id=$2`, id, providerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows)
	}
	return nil
}

func (r *workPaymentsRepo) Summary(ctx context.Context, providerID string) (int, decimal.Decimal, *time.Time, error) {
	var (
		n     int
		total string
		last  *time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT count(*), COALESCE(SUM(amount), 0)::text, max(payment_date)
		   FROM work_payments WHERE provider_id=$1`, providerID,
	).Scan(&n, &total, &last)
	if err != nil {
		return 0, decimal.Zero, nil, err
	}
	sum, err := parseAmount(total)
	return n, sum, last, err
}
