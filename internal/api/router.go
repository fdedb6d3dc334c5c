package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/debtme-backend/internal/api/handlers"
	"github.com/baharkarakas/debtme-backend/internal/auth"
	"github.com/baharkarakas/debtme-backend/internal/config"
	"github.com/baharkarakas/debtme-backend/internal/metrics"
	"github.com/baharkarakas/debtme-backend/internal/middleware"
	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/baharkarakas/debtme-backend/internal/services"
)

type RouterDeps struct {
	Cfg       config.Config
	TM        *auth.TokenManager
	Users     *services.UserService
	Links     *services.LinkService
	Txns      *services.TransactionService
	Balances  *services.BalanceService
	OTP       *services.OTPService
	Employers *services.EmployerService
}

func NewRouter(d RouterDeps) http.Handler {
	authH := handlers.NewAuthHandler(d.Users)
	userH := handlers.NewUserHandler(d.Users, d.Links)
	linkH := handlers.NewLinkHandler(d.Links)
	txnH := handlers.NewTransactionHandler(d.Txns, d.Balances)
	otpH := handlers.NewOTPHandler(d.OTP)
	empH := handlers.NewEmployerHandler(d.Employers)
	authMW := middleware.NewAuthMiddleware(d.TM)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- public ----------
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)

		// ---------- authenticated ----------
		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)

			r.With(middleware.CanAdminister).Post("/auth/providers", authH.CreateProvider)
			r.With(middleware.CanAdminister).Get("/users", userH.List)
			r.Get("/users/me", userH.Me)
			r.With(middleware.RequireRole(models.RoleUser)).Get("/users/me/providers", userH.MyProviders)
			r.With(middleware.CanInvite).Get("/providers/me/clients", userH.MyClients)

			r.Route("/links", func(r chi.Router) {
				r.With(middleware.CanInvite).Post("/", linkH.Create)
				r.With(middleware.CanInvite).Get("/applications", linkH.Applications)
				r.With(middleware.RequireRole(models.RoleUser)).Get("/invitations", linkH.Invitations)
				r.Post("/{id}/status", linkH.SetStatus)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", txnH.Create)
				r.Get("/pair/{user_id}/{provider_id}", txnH.ListForPair)
				r.Get("/{id}", txnH.Get)
				r.Post("/{id}/approve", txnH.Approve)
			})
			r.Get("/balances/{user_id}/{provider_id}", txnH.Balance)

			r.With(middleware.CanInvite).Post("/otp/init", otpH.Init)

			r.Route("/employers", func(r chi.Router) {
				r.Use(middleware.CanManageEmployers)
				r.Post("/", empH.Create)
				r.Get("/", empH.List)
				r.Get("/{id}", empH.Get)
				r.Put("/{id}", empH.Update)
				r.Delete("/{id}", empH.Delete)
			})
			r.Route("/work-payments", func(r chi.Router) {
				r.Use(middleware.CanManageEmployers)
				r.Post("/", empH.CreatePayment)
				r.Get("/", empH.ListPayments)
				r.Get("/summary", empH.Summary)
				r.Get("/employer/{id}", empH.ListEmployerPayments)
				r.Get("/{id}", empH.GetPayment)
				r.Put("/{id}", empH.UpdatePayment)
				r.Delete("/{id}", empH.DeletePayment)
			})
		})
	})

	return r
}
