package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/baharkarakas/debtme-backend/internal/api/validate"
	"github.com/baharkarakas/debtme-backend/internal/auth"
	"github.com/baharkarakas/debtme-backend/internal/models"
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
)

type UserService struct {
	r     repo.Users
	tm    *auth.TokenManager
	audit *Auditor
}

func NewUserService(r repo.Users, tm *auth.TokenManager, a *Auditor) *UserService {
	return &UserService{r: r, tm: tm, audit: a}
}

func (s *UserService) create(ctx context.Context, name, email, password string, role models.Role, kind models.ProviderKind) (models.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if err := validate.Collect(
		validate.MinLen("name", name, 2),
		validate.Email("email", email),
		validate.MinLen("password", password, 8),
	); err != nil {
		return models.User{}, invalid(err)
	}
	u := models.User{Name: name, Email: email, Role: role, ProviderKind: kind}
	if err := u.Validate(); err != nil {
		return models.User{}, invalid(err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash

	u, err = s.r.Create(ctx, u)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.User{}, conflict("email already registered")
	}
	return u, err
}

// Register creates a plain user account. Providers are created by admins.
func (s *UserService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	return s.create(ctx, name, email, password, models.RoleUser, models.KindNone)
}

func (s *UserService) CreateProvider(ctx context.Context, admin models.Identity, name, email, password string, kind models.ProviderKind) (models.User, error) {
	if !admin.Caps.CanAdminister {
		return models.User{}, permission("only admins can create providers")
	}
	if err := validate.Collect(validate.OneOf("provider_kind", string(kind), string(models.KindLender), string(models.KindPayer))); err != nil {
		return models.User{}, invalid(err)
	}
	u, err := s.create(ctx, name, email, password, models.RoleProvider, kind)
	if err == nil {
		s.audit.Record(admin.ID, "user", u.ID, "provider_created", map[string]any{"kind": kind})
	}
	return u, err
}

// CreateAdmin bootstraps an administrator; only reachable from the operator CLI.
func (s *UserService) CreateAdmin(ctx context.Context, name, email, password string) (models.User, error) {
	return s.create(ctx, name, email, password, models.RoleAdmin, models.KindNone)
}

func (s *UserService) Login(ctx context.Context, email, password string) (auth.Pair, models.User, error) {
	u, err := s.r.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repo.ErrNotFound) {
		return auth.Pair{}, models.User{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}
	if err != nil {
		return auth.Pair{}, models.User{}, err
	}
	if auth.VerifyPassword(password, u.PasswordHash) != nil {
		return auth.Pair{}, models.User{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}
	pair, err := s.tm.GeneratePair(u.ID, string(u.Role), string(u.ProviderKind))
	return pair, u, err
}

// Refresh re-reads the user so role changes land in the new pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (auth.Pair, error) {
	claims, err := s.tm.ParseRefresh(refreshToken)
	if err != nil {
		return auth.Pair{}, fmt.Errorf("%w: invalid refresh token", ErrUnauthenticated)
	}
	u, err := s.r.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return auth.Pair{}, fmt.Errorf("%w: account no longer exists", ErrUnauthenticated)
	}
	if err != nil {
		return auth.Pair{}, err
	}
	return s.tm.GeneratePair(u.ID, string(u.Role), string(u.ProviderKind))
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	u, err := s.r.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, notFound("user not found")
	}
	return u, err
}

func (s *UserService) List(ctx context.Context, admin models.Identity, limit, offset int) ([]models.User, error) {
	if !admin.Caps.CanAdminister {
		return nil, permission("only admins can list users")
	}
	return s.r.List(ctx, limit, offset)
}
