package postgres

import (
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewStore(pool *pgxpool.Pool) repo.Store {
	users := &usersRepo{pool}
	return repo.Store{
		Users:        users,
		Secrets:      users,
		Links:        &linksRepo{pool},
		Transactions: &transactionsRepo{pool},
		AuditLogs:    &auditLogsRepo{pool},
		Employers:    &employersRepo{pool},
		WorkPayments: &workPaymentsRepo{pool},
	}
}
