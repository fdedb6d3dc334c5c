package postgres

import (
	"context"

	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type employersRepo struct{ pool *pgxpool.Pool }

const employerCols = `e.id, e.name, e.contact_info, e.created_by, e.created_at,
	(SELECT count(*) FROM work_payments wp WHERE wp.employer_id = e.id)`

func scanEmployer(row pgx.Row) (models.Employer, error) {
	var e models.Employer
	err := row.Scan(&e.ID, &e.Name, &e.ContactInfo, &e.CreatedBy, &e.CreatedAt, &e.PaymentCount)
	return e, mapErr(err)
}

func (r *employersRepo) Create(ctx context.Context, e models.Employer) (models.Employer, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO employers(id, name, contact_info, created_by) VALUES($1,$2,$3,$4)`,
		e.ID, e.Name, e.ContactInfo, e.CreatedBy)
	if err != nil {
		return models.Employer{}, mapErr(err)
	}
	return r.GetByID(ctx, e.CreatedBy, e.ID)
}

func (r *employersRepo) GetByID(ctx context.Context, providerID, id string) (models.Employer, error) {
	if !validIDs(providerID, id) {
		return models.Employer{}, repository.ErrNotFound
	}
	return scanEmployer(r.pool.QueryRow(ctx,
		`SELECT `+employerCols+` FROM employers e WHERE e.id=$1 AND e.created_by=$2`, id, providerID))
}

func (r *employersRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Employer, error) {
	if !validIDs(providerID) {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+employerCols+` FROM employers e WHERE e.created_by=$1 ORDER BY e.name`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Employer
	for rows.Next() {
		e, err := scanEmployer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *employersRepo) Update(ctx context.Context, e models.Employer) (models.Employer, error) {
	if !validIDs(e.ID, e.CreatedBy) {
		return models.Employer{}, repository.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE employers SET name=$3, contact_info=$4 WHERE id=$1 AND created_by=$2`,
		e.ID, e.CreatedBy, e.Name, e.ContactInfo)
	if err != nil {
		return models.Employer{}, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return models.Employer{}, mapErr(pgx.ErrNoRows)
	}
	return r.GetByID(ctx, e.CreatedBy, e.ID)
}

func (r *employersRepo) Delete(ctx context.Context, providerID, id string) error {
	if !validIDs(providerID, id) {
		return repository.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM employers WHERE id=$1 AND created_by=$2`, id, providerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows)
	}
	return nil
}
