package postgres

import (
	"context"

	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userCols = `id, name, email, password_hash, role, COALESCE(provider_kind, ''), COALESCE(otp_secret, ''), created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ProviderKind, &u.OTPSecret, &u.CreatedAt, &u.UpdatedAt)
	return u, mapErr(err)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users(id, name, email, password_hash, role, provider_kind, otp_secret)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+userCols,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, nullable(string(u.ProviderKind)), nullable(u.OTPSecret),
	))
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	if !validIDs(id) {
		return models.User{}, repository.ErrNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE lower(email)=lower($1)`, email))
}

func (r *usersRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userCols+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) SetOTPSecret(ctx context.Context, id, secret string) error {
	if !validIDs(id) {
		return repository.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `UPDATE users SET otp_secret=$2, updated_at=now() WHERE id=$1`, id, secret)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows)
	}
	return nil
}

func (r *usersRepo) OTPSecret(ctx context.Context, providerID string) (string, error) {
	if !validIDs(providerID) {
		return "", repository.ErrNotFound
	}
	var s string
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(otp_secret, '') FROM users WHERE id=$1`, providerID).Scan(&s)
	return s, mapErr(err)
}
