package cart

import (
	"context"
	"fmt"
	"testing"

	"wardrobewizard/backend/internal/store/memory"
)

func TestManagerReturnsSameEngine(t *testing.T) {
	manager := NewManager(memory.New(), nil, nil, 10)
	ctx := context.Background()

	a := manager.Engine(ctx, "session-1")
	b := manager.Engine(ctx, "session-1")
	if a != b {
		t.Fatalf("expected the same engine for the same session")
	}
	if manager.Live() != 1 {
		t.Fatalf("live = %d, want 1", manager.Live())
	}
}

func TestManagerEvictsOldestBeyondCap(t *testing.T) {
	repo := memory.New()
	manager := NewManager(repo, nil, nil, 3)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		sessionID := fmt.Sprintf("session-%d", i)
		manager.Engine(ctx, sessionID).AddItem(ctx, product(i+1, "item", "10.00 AED"))
	}

	if manager.Live() != 3 {
		t.Fatalf("live = %d, want 3", manager.Live())
	}

	// The evicted session rehydrates its lines from the repository.
	view := manager.Engine(ctx, "session-0").View()
	if view.ItemCount != 1 {
		t.Fatalf("rehydrated cart = %+v", view)
	}
}

func TestManagerEvictionDropsCoupon(t *testing.T) {
	repo := memory.New()
	manager := NewManager(repo, nil, nil, 1)
	ctx := context.Background()

	first := manager.Engine(ctx, "session-a")
	first.AddItem(ctx, product(1, "Coat", "500.00 AED"))
	if _, err := first.ApplyCoupon("15WW"); err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}

	manager.Engine(ctx, "session-b") // evicts session-a

	view := manager.Engine(ctx, "session-a").View()
	if view.ItemCount != 1 {
		t.Fatalf("lines lost across eviction: %+v", view)
	}
	if view.AppliedCoupon != nil {
		t.Fatalf("coupon must not survive eviction: %+v", view.AppliedCoupon)
	}
}
