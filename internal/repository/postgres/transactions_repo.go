package postgres

import (
	"context"
	"errors"

	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

const txnCols = `id, seq, user_id, provider_id, amount::text, type, status, created_at`

func scanTxn(row pgx.Row) (models.Transaction, error) {
	var (
		tx  models.Transaction
		amt string
	)
	if err := row.Scan(&tx.ID, &tx.Seq, &tx.UserID, &tx.ProviderID, &amt, &tx.Type, &tx.Status, &tx.CreatedAt); err != nil {
		return models.Transaction{}, mapErr(err)
	}
	var err error
	tx.Amount, err = parseAmount(amt)
	return tx, err
}

func (r *transactionsRepo) Create(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if !validIDs(tx.ID, tx.UserID, tx.ProviderID) {
		return models.Transaction{}, repository.ErrNotFound
	}
	return scanTxn(r.pool.QueryRow(ctx,
		`INSERT INTO transactions (id, user_id, provider_id, amount, type, status)
		 VALUES ($1,$2,$3,$4::numeric,$5,$6)
		 RETURNING `+txnCols,
		tx.ID, tx.UserID, tx.ProviderID, tx.Amount.String(), tx.Type, tx.Status,
	))
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	if !validIDs(id) {
		return models.Transaction{}, repository.ErrNotFound
	}
	return scanTxn(r.pool.QueryRow(ctx, `SELECT `+txnCols+` FROM transactions WHERE id=$1`, id))
}

func (r *transactionsRepo) ListByPair(ctx context.Context, userID, providerID string) ([]models.Transaction, error) {
	if !validIDs(userID, providerID) {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+txnCols+`
		   FROM transactions
		  WHERE user_id=$1 AND provider_id=$2
		  ORDER BY seq`,
		userID, providerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		tx, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// Single conditional statement: of two concurrent approvals only one matches status='pending'.
func (r *transactionsRepo) ConfirmPendingDebt(ctx context.Context, id string) (models.Transaction, error) {
	if !validIDs(id) {
		return models.Transaction{}, repository.ErrNotFound
	}
	tx, err := scanTxn(r.pool.QueryRow(ctx,
		`UPDATE transactions SET status='confirmed'
		  WHERE id=$1 AND type='debt' AND status='pending'
		  RETURNING `+txnCols,
		id,
	))
	if errors.Is(err, repository.ErrNotFound) {
		return models.Transaction{}, repository.ErrStateChanged
	}
	return tx, err
}

func (r *transactionsRepo) SumConfirmed(ctx context.Context, userID, providerID string, t models.TransactionType) (decimal.Decimal, error) {
	if !validIDs(userID, providerID) {
		return decimal.Zero, nil
	}
	var s string
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::text
		   FROM transactions
		  WHERE user_id=$1 AND provider_id=$2 AND type=$3 AND status='confirmed'`,
		userID, providerID, t,
	).Scan(&s)
	if err != nil {
		return decimal.Zero, err
	}
	return parseAmount(s)
}
