package store

import (
	"context"
	"errors"

	"wardrobewizard/backend/internal/domain"
)

var (
	// ErrNotFound is returned when no cart has been persisted for a session.
	ErrNotFound = errors.New("cart not found")
	// ErrCorruptCart is returned when a persisted payload cannot be decoded.
	// Callers recover by starting from an empty cart.
	ErrCorruptCart = errors.New("corrupt cart payload")
)

// Repository is the persistence port for cart line collections. Only lines
// are persisted; the applied coupon is session state and is re-derived by the
// caller each session.
type Repository interface {
	LoadCart(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	SaveCart(ctx context.Context, sessionID string, lines []domain.CartLine) error
	DeleteCart(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context, limit int) ([]string, error)
}
