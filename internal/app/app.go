// Package app assembles storage and services from a Config. Both the HTTP
// server and the operator CLI build through it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/baharkarakas/debtme-backend/internal/api"
	"github.com/baharkarakas/debtme-backend/internal/auth"
	"github.com/baharkarakas/debtme-backend/internal/config"
	"github.com/baharkarakas/debtme-backend/internal/db"
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/baharkarakas/debtme-backend/internal/repository/memory"
	"github.com/baharkarakas/debtme-backend/internal/repository/postgres"
	"github.com/baharkarakas/debtme-backend/internal/services"
	"github.com/baharkarakas/debtme-backend/internal/worker"
)

// OpenStore returns the configured store and a func releasing it.
func OpenStore(ctx context.Context, cfg config.Config) (repo.Store, func(), error) {
	switch cfg.Store {
	case "memory":
		slog.Warn("using in-memory store; data is lost on exit")
		return memory.New().Store, func() {}, nil
	case "postgres", "":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return repo.Store{}, nil, fmt.Errorf("db connect: %w", err)
		}
		if cfg.Migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return repo.Store{}, nil, fmt.Errorf("migrations: %w", err)
			}
		}
		return postgres.NewStore(pool), pool.Close, nil
	default:
		return repo.Store{}, nil, fmt.Errorf("unknown APP_STORE %q", cfg.Store)
	}
}

func TokenManager(cfg config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
}

// Services builds every service over st. wp may be nil, in which case audit
// writes happen inline.
func Services(cfg config.Config, st repo.Store, wp *worker.Pool) api.RouterDeps {
	opts := services.OptionsFrom(cfg)
	tm := TokenManager(cfg)
	audit := services.NewAuditor(st.AuditLogs, wp)
	return api.RouterDeps{
		Cfg:       cfg,
		TM:        tm,
		Users:     services.NewUserService(st.Users, tm, audit),
		Links:     services.NewLinkService(st.Links, st.Users, audit),
		Txns:      services.NewTransactionService(st.Transactions, st.Links, st.Secrets, audit, opts),
		Balances:  services.NewBalanceService(st.Transactions, st.Links),
		OTP:       services.NewOTPService(st.Users, audit, opts),
		Employers: services.NewEmployerService(st.Employers, st.WorkPayments, audit, opts),
	}
}
