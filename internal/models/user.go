package models

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	ProviderKind ProviderKind `json:"provider_kind,omitempty"`
	OTPSecret    string       `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (u *User) Validate() error {
	if len(strings.TrimSpace(u.Name)) < 2 { return errors.New("name too short") }
	if !strings.Contains(u.Email, "@") { return errors.New("invalid email") }
	if u.Role == "" { u.Role = RoleUser }
	if !u.Role.Valid() { return errors.New("invalid role") }
	if u.Role == RoleProvider && !u.ProviderKind.Valid() { return errors.New("provider kind required") }
	if u.Role != RoleProvider && u.ProviderKind != KindNone { return errors.New("provider kind only applies to providers") }
	return nil
}

func (u User) Identity() Identity { return NewIdentity(u.ID, u.Role, u.ProviderKind) }
