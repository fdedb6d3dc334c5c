package services

import (
	"context"
	"errors"

	"github.com/baharkarakas/debtme-backend/internal/models"
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
)

// pairAccess guards reads of one user/provider ledger.
type pairAccess struct{ links repo.Links }

// authorize admits the pair's user, its provider, or an admin. Non-admins
// additionally need a link row for the pair.
func (a pairAccess) authorize(ctx context.Context, requester models.Identity, userID, providerID string) error {
	if requester.IsAdmin() {
		return nil
	}
	if requester.ID != userID && requester.ID != providerID {
		return permission("not a party to this ledger")
	}
	_, err := a.links.GetByPair(ctx, userID, providerID)
	if errors.Is(err, repo.ErrNotFound) {
		return conflict("link does not exist")
	}
	return err
}
