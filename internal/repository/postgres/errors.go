package postgres

import (
	"errors"

	"github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const (
	uniqueViolation = "23505"
	invalidTextRepr = "22P02"
)

// validIDs reports whether every id can be a uuid key. Anything else cannot
// match a row, and pgx would otherwise fail to encode it.
func validIDs(ids ...string) bool {
	for _, id := range ids {
		if uuid.Validate(id) != nil {
			return false
		}
	}
	return true
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return errors.Join(repository.ErrDuplicate, err)
		case invalidTextRepr:
			return errors.Join(repository.ErrNotFound, err)
		}
	}
	return err
}

// numeric columns are selected as ::text and parsed here, keeping amounts exact.
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
