package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"wardrobewizard/backend/internal/domain"
	"wardrobewizard/backend/internal/events"
	"wardrobewizard/backend/internal/store"
)

var (
	// ErrCouponNotFound is returned when the supplied code is not in the
	// catalog. The cart is left untouched.
	ErrCouponNotFound = errors.New("coupon code not found")
	// ErrCouponThresholdNotMet is returned when the code exists but the
	// current subtotal is below the coupon's minimum purchase amount.
	ErrCouponThresholdNotMet = errors.New("coupon minimum purchase not met")
)

// Subscriber receives the cart view after every successful mutation.
// Subscribers are invoked synchronously on the mutating goroutine.
type Subscriber func(domain.CartView)

// Engine owns the cart state of one session: the ordered line collection and
// the applied coupon. All mutations go through the engine, which persists the
// line collection after every change and re-derives totals on every read.
//
// The applied coupon is deliberately not persisted and not cleared by line
// mutations: a coupon whose threshold is no longer met stays applied but
// contributes no discount until the subtotal recovers.
type Engine struct {
	mu        sync.Mutex
	sessionID string
	lines     []domain.CartLine
	coupon    *domain.Coupon

	repo      store.Repository
	publisher events.Publisher
	logger    *zap.Logger
	subs      []Subscriber
}

// NewEngine hydrates an engine from the repository. A missing or corrupt
// persisted cart degrades to an empty one; hydration never fails.
func NewEngine(ctx context.Context, sessionID string, repo store.Repository, publisher events.Publisher, logger *zap.Logger) *Engine {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		sessionID: sessionID,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}

	lines, err := repo.LoadCart(ctx, sessionID)
	switch {
	case err == nil:
		e.lines = sanitizeLines(lines)
	case errors.Is(err, store.ErrNotFound):
		// First visit for this session.
	default:
		logger.Warn("cart hydration failed, starting empty",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	return e
}

// sanitizeLines drops lines a buggy or hand-edited payload could contain:
// non-positive quantities and duplicate product ids (first occurrence wins,
// preserving stored order).
func sanitizeLines(lines []domain.CartLine) []domain.CartLine {
	seen := make(map[int]struct{}, len(lines))
	out := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		if _, dup := seen[line.ID]; dup {
			continue
		}
		seen[line.ID] = struct{}{}
		out = append(out, line)
	}
	return out
}

// SessionID returns the session this engine belongs to.
func (e *Engine) SessionID() string { return e.sessionID }

// Subscribe registers a callback for post-mutation views.
func (e *Engine) Subscribe(fn Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// View returns the current derived state.
func (e *Engine) View() domain.CartView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// AddItem merges the product into the cart: an existing line for the same
// product id gets its quantity incremented by one and keeps its original
// snapshot fields; otherwise a new line with quantity 1 is appended.
func (e *Engine) AddItem(ctx context.Context, product domain.Product) domain.CartView {
	e.mu.Lock()
	merged := false
	for i := range e.lines {
		if e.lines[i].ID == product.ID {
			e.lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		e.lines = append(e.lines, domain.CartLine{Product: product, Quantity: 1})
	}
	view := e.viewLocked()
	e.persistLocked(ctx)
	subs := e.subs
	e.mu.Unlock()

	e.publisher.Publish(events.EventCartUpdated, e.sessionID, view)
	notify(subs, view)
	return view
}

// RemoveItem deletes the line for productID. Removing an absent product is a
// no-op, not an error.
func (e *Engine) RemoveItem(ctx context.Context, productID int) domain.CartView {
	e.mu.Lock()
	kept := e.lines[:0]
	removed := false
	for _, line := range e.lines {
		if line.ID == productID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	e.lines = kept
	view := e.viewLocked()
	if removed {
		e.persistLocked(ctx)
	}
	subs := e.subs
	e.mu.Unlock()

	if removed {
		e.publisher.Publish(events.EventCartUpdated, e.sessionID, view)
		notify(subs, view)
	}
	return view
}

// UpdateQuantity sets the line's quantity to exactly quantity. A quantity of
// zero or less removes the line. Unknown product ids are ignored.
func (e *Engine) UpdateQuantity(ctx context.Context, productID int, quantity int) domain.CartView {
	if quantity <= 0 {
		return e.RemoveItem(ctx, productID)
	}

	e.mu.Lock()
	changed := false
	for i := range e.lines {
		if e.lines[i].ID == productID {
			changed = e.lines[i].Quantity != quantity
			e.lines[i].Quantity = quantity
			break
		}
	}
	view := e.viewLocked()
	if changed {
		e.persistLocked(ctx)
	}
	subs := e.subs
	e.mu.Unlock()

	if changed {
		e.publisher.Publish(events.EventCartUpdated, e.sessionID, view)
		notify(subs, view)
	}
	return view
}

// Clear empties the line collection. The applied coupon is left in place; it
// simply becomes ineligible until items are added again.
func (e *Engine) Clear(ctx context.Context) domain.CartView {
	e.mu.Lock()
	e.lines = nil
	view := e.viewLocked()
	e.persistLocked(ctx)
	subs := e.subs
	e.mu.Unlock()

	e.publisher.Publish(events.EventCartCleared, e.sessionID, view)
	notify(subs, view)
	return view
}

// ApplyCoupon resolves the code against the fixed catalog and applies it if
// the current subtotal meets the coupon's minimum purchase amount. A second
// apply overwrites the previous coupon; at most one is active. Coupon state
// is session-only and is not written to the repository.
func (e *Engine) ApplyCoupon(code string) (domain.CartView, error) {
	coupon, ok := ResolveCoupon(code)
	if !ok {
		return e.View(), ErrCouponNotFound
	}

	e.mu.Lock()
	subtotal := Compute(e.lines, nil).Subtotal
	if subtotal < coupon.MinAmount {
		view := e.viewLocked()
		e.mu.Unlock()
		return view, ErrCouponThresholdNotMet
	}
	e.coupon = &coupon
	view := e.viewLocked()
	subs := e.subs
	e.mu.Unlock()

	e.publisher.Publish(events.EventCouponApplied, e.sessionID, view)
	notify(subs, view)
	return view, nil
}

// RemoveCoupon clears the applied coupon. Always succeeds.
func (e *Engine) RemoveCoupon() domain.CartView {
	e.mu.Lock()
	had := e.coupon != nil
	e.coupon = nil
	view := e.viewLocked()
	subs := e.subs
	e.mu.Unlock()

	if had {
		e.publisher.Publish(events.EventCouponRemoved, e.sessionID, view)
		notify(subs, view)
	}
	return view
}

func (e *Engine) viewLocked() domain.CartView {
	totals := Compute(e.lines, e.coupon)

	lines := make([]domain.CartLine, len(e.lines))
	copy(lines, e.lines)

	view := domain.CartView{
		Lines:     lines,
		ItemCount: totals.ItemCount,
		Subtotal:  FormatAmount(totals.Subtotal),
		Discount:  FormatAmount(totals.Discount),
		Total:     FormatAmount(totals.Total),
	}
	if e.coupon != nil {
		coupon := *e.coupon
		view.AppliedCoupon = &coupon
	}
	return view
}

// persistLocked writes the line collection back to the repository. Storage
// failures are logged and swallowed so a flaky backend never breaks the cart.
func (e *Engine) persistLocked(ctx context.Context) {
	lines := make([]domain.CartLine, len(e.lines))
	copy(lines, e.lines)
	if err := e.repo.SaveCart(ctx, e.sessionID, lines); err != nil {
		e.logger.Warn("cart persist failed",
			zap.String("session_id", e.sessionID),
			zap.Error(err))
	}
}

func notify(subs []Subscriber, view domain.CartView) {
	for _, fn := range subs {
		fn(view)
	}
}
