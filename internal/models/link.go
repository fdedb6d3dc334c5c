package models

import "time"

type LinkStatus string

const (
	LinkPending  LinkStatus = "pending"
	LinkApproved LinkStatus = "approved"
	LinkRejected LinkStatus = "rejected"
)

// Link relates one user to one provider. Unique per pair.
type Link struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	ProviderID string     `json:"provider_id"`
	Status     LinkStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
