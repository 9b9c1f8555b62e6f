package events

import (
	"encoding/json"
	"time"

	"wardrobewizard/backend/internal/domain"
)

const (
	EventCartUpdated   = "cart.updated"
	EventCartCleared   = "cart.cleared"
	EventCouponApplied = "coupon.applied"
	EventCouponRemoved = "coupon.removed"
)

// Envelope wraps every published cart event. Payload is the CartView after
// the mutation was applied.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	SessionID    string          `json:"session_id"`
	Payload      json.RawMessage `json:"payload"`
}

// Publisher emits cart mutation events to interested downstream consumers.
// Publishing is best-effort: a failed or dropped event never fails the cart
// mutation that produced it.
type Publisher interface {
	Publish(eventType string, sessionID string, view domain.CartView)
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, string, domain.CartView) {}
