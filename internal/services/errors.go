package services

import (
	"errors"
	"fmt"
)

// Error kinds. Services wrap these with context; the HTTP layer maps them to status codes.
var (
	ErrPermission      = errors.New("permission denied")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
)

func permission(msg string) error { return fmt.Errorf("%w: %s", ErrPermission, msg) }
func conflict(msg string) error   { return fmt.Errorf("%w: %s", ErrConflict, msg) }
func notFound(msg string) error   { return fmt.Errorf("%w: %s", ErrNotFound, msg) }

// invalid keeps the field details reachable through errors.As.
func invalid(err error) error { return fmt.Errorf("%w: %w", ErrValidation, err) }
