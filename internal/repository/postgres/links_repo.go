package postgres

import (
	"context"
	"errors"

	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type linksRepo struct{ pool *pgxpool.Pool }

const linkCols = `id, user_id, provider_id, status, created_at, updated_at`

func scanLink(row pgx.Row) (models.Link, error) {
	var l models.Link
	err := row.Scan(&l.ID, &l.UserID, &l.ProviderID, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	return l, mapErr(err)
}

// A concurrent insert for the same pair loses on uq_user_provider; the
// DO NOTHING branch returns no row and the survivor is read back.
func (r *linksRepo) CreateIfAbsent(ctx context.Context, userID, providerID string) (models.Link, bool, error) {
	if !validIDs(userID, providerID) {
		return models.Link{}, false, repository.ErrNotFound
	}
	l, err := scanLink(r.pool.QueryRow(ctx,
		`INSERT INTO user_provider_links(id, user_id, provider_id, status)
		 VALUES($1,$2,$3,'pending')
		 ON CONFLICT ON CONSTRAINT uq_user_provider DO NOTHING
		 RETURNING `+linkCols,
		uuid.NewString(), userID, providerID,
	))
	if err == nil {
		return l, true, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.Link{}, false, err
	}
	l, err = r.GetByPair(ctx, userID, providerID)
	return l, false, err
}

func (r *linksRepo) GetByID(ctx context.Context, id string) (models.Link, error) {
	if !validIDs(id) {
		return models.Link{}, repository.ErrNotFound
	}
	return scanLink(r.pool.QueryRow(ctx, `SELECT `+linkCols+` FROM user_provider_links WHERE id=$1`, id))
}

func (r *linksRepo) GetByPair(ctx context.Context, userID, providerID string) (models.Link, error) {
	if !validIDs(userID, providerID) {
		return models.Link{}, repository.ErrNotFound
	}
	return scanLink(r.pool.QueryRow(ctx,
		`SELECT `+linkCols+` FROM user_provider_links WHERE user_id=$1 AND provider_id=$2`, userID, providerID))
}

func (r *linksRepo) UpdatePendingStatus(ctx context.Context, id string, status models.LinkStatus) (models.Link, error) {
	if !validIDs(id) {
		return models.Link{}, repository.ErrNotFound
	}
	l, err := scanLink(r.pool.QueryRow(ctx,
		`UPDATE user_provider_links SET status=$2, updated_at=now()
		  WHERE id=$1 AND status='pending'
		  RETURNING `+linkCols,
		id, status,
	))
	if errors.Is(err, repository.ErrNotFound) {
		return models.Link{}, repository.ErrStateChanged
	}
	return l, err
}

func (r *linksRepo) ListByUser(ctx context.Context, userID string, status *models.LinkStatus) ([]models.Link, error) {
	return r.list(ctx, `user_id`, userID, status)
}

func (r *linksRepo) ListByProvider(ctx context.Context, providerID string, status *models.LinkStatus) ([]models.Link, error) {
	return r.list(ctx, `provider_id`, providerID, status)
}

func (r *linksRepo) list(ctx context.Context, col, id string, status *models.LinkStatus) ([]models.Link, error) {
	if !validIDs(id) {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+linkCols+` FROM user_provider_links
		  WHERE `+col+`=$1 AND ($2::text IS NULL OR status=$2)
		  ORDER BY created_at, id`,
		id, status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
