package services

import (
	"context"
	"errors"

	"github.com/baharkarakas/debtme-backend/internal/api/validate"
	"github.com/baharkarakas/debtme-backend/internal/metrics"
	"github.com/baharkarakas/debtme-backend/internal/models"
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
)

type LinkService struct {
	links repo.Links
	users repo.Users
	audit *Auditor
}

func NewLinkService(l repo.Links, u repo.Users, a *Auditor) *LinkService {
	return &LinkService{links: l, users: u, audit: a}
}

// LinkView is a link together with the party on the other end.
type LinkView struct {
	models.Link
	Counterparty models.User `json:"counterparty"`
}

// CreateLink invites userID. Inviting an already linked user returns the
// existing link untouched, whatever its status.
func (s *LinkService) CreateLink(ctx context.Context, provider models.Identity, userID string) (models.Link, error) {
	l, _, err := s.Invite(ctx, provider, userID)
	return l, err
}

// Invite is CreateLink that also reports whether this call made the link.
func (s *LinkService) Invite(ctx context.Context, provider models.Identity, userID string) (models.Link, bool, error) {
	if !provider.Caps.CanInvite {
		return models.Link{}, false, permission("only providers can link clients")
	}
	if err := validate.Collect(validate.Required("user_id", userID)); err != nil {
		return models.Link{}, false, invalid(err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && u.Role != models.RoleUser) {
		return models.Link{}, false, notFound("client not found")
	}
	if err != nil {
		return models.Link{}, false, err
	}

	l, created, err := s.links.CreateIfAbsent(ctx, userID, provider.ID)
	if err != nil {
		return models.Link{}, false, err
	}
	if created {
		metrics.LinkDecisions.WithLabelValues(string(models.LinkPending)).Inc()
		s.audit.Record(provider.ID, "link", l.ID, "invited", map[string]any{"user_id": userID})
	}
	return l, created, nil
}

// SetLinkStatus answers a pending invitation. Checks run lookup first, then
// permission, then the requested status.
func (s *LinkService) SetLinkStatus(ctx context.Context, linkID string, actor models.Identity, status models.LinkStatus) (models.Link, error) {
	l, err := s.links.GetByID(ctx, linkID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Link{}, notFound("link not found")
	}
	if err != nil {
		return models.Link{}, err
	}
	if !actor.Caps.CanApproveLink || actor.ID != l.UserID {
		return models.Link{}, permission("only the invited user can answer a link")
	}
	if err := validate.Collect(validate.OneOf("status", string(status), string(models.LinkApproved), string(models.LinkRejected))); err != nil {
		return models.Link{}, invalid(err)
	}
	if l.Status != models.LinkPending {
		return models.Link{}, conflict("link already " + string(l.Status))
	}

	l, err = s.links.UpdatePendingStatus(ctx, linkID, status)
	if errors.Is(err, repo.ErrStateChanged) {
		return models.Link{}, conflict("link already answered")
	}
	if err != nil {
		return models.Link{}, err
	}
	metrics.LinkDecisions.WithLabelValues(string(status)).Inc()
	s.audit.Record(actor.ID, "link", l.ID, "status_change", map[string]any{"status": status})
	return l, nil
}

func approved() *models.LinkStatus { s := models.LinkApproved; return &s }
func pending() *models.LinkStatus  { s := models.LinkPending; return &s }

func (s *LinkService) ListApprovedClients(ctx context.Context, provider models.Identity) ([]models.Link, error) {
	if !provider.Caps.CanInvite {
		return nil, permission("not a provider")
	}
	return s.links.ListByProvider(ctx, provider.ID, approved())
}

func (s *LinkService) ListApprovedProviders(ctx context.Context, user models.Identity) ([]models.Link, error) {
	return s.links.ListByUser(ctx, user.ID, approved())
}

// ListPendingForUser is the user's inbox of unanswered invitations.
func (s *LinkService) ListPendingForUser(ctx context.Context, user models.Identity) ([]models.Link, error) {
	return s.links.ListByUser(ctx, user.ID, pending())
}

// ListAllForProvider returns every invitation the provider sent, any status.
func (s *LinkService) ListAllForProvider(ctx context.Context, provider models.Identity) ([]models.Link, error) {
	if !provider.Caps.CanInvite {
		return nil, permission("not a provider")
	}
	return s.links.ListByProvider(ctx, provider.ID, nil)
}

// WithCounterparties resolves the other end of each link for directory views.
func (s *LinkService) WithCounterparties(ctx context.Context, viewer models.Identity, links []models.Link) ([]LinkView, error) {
	out := make([]LinkView, 0, len(links))
	for _, l := range links {
		other := l.ProviderID
		if viewer.ID == l.ProviderID {
			other = l.UserID
		}
		u, err := s.users.GetByID(ctx, other)
		if err != nil {
			return nil, err
		}
		out = append(out, LinkView{Link: l, Counterparty: u})
	}
	return out, nil
}
