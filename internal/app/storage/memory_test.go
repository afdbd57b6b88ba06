package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kierros-labs/lottery-service/internal/app/domain/draw"
	"github.com/kierros-labs/lottery-service/internal/app/domain/ticket"
)

func TestMemoryRoundLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.CurrentRound(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CurrentRound on empty store = %v, want ErrNotFound", err)
	}

	r1, err := m.CreateRound(ctx)
	if err != nil {
		t.Fatalf("CreateRound: %v", err)
	}
	if r1.RoundNumber != 1 || !r1.IsActive {
		t.Fatalf("first round = %+v, want number 1 and active", r1)
	}

	if _, err := m.CreateRound(ctx); !errors.Is(err, ErrActiveRoundExists) {
		t.Fatalf("second CreateRound while active = %v, want ErrActiveRoundExists", err)
	}

	closed, err := m.CloseRound(ctx, r1.ID)
	if err != nil {
		t.Fatalf("CloseRound: %v", err)
	}
	if closed.IsActive || closed.ClosedAt.IsZero() {
		t.Fatalf("closed round = %+v, want inactive with closed_at set", closed)
	}

	if _, err := m.CloseRound(ctx, r1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CloseRound twice = %v, want ErrNotFound", err)
	}

	r2, err := m.CreateRound(ctx)
	if err != nil {
		t.Fatalf("CreateRound after close: %v", err)
	}
	if r2.RoundNumber != 2 {
		t.Fatalf("second round number = %d, want 2", r2.RoundNumber)
	}

	current, err := m.CurrentRound(ctx)
	if err != nil {
		t.Fatalf("CurrentRound: %v", err)
	}
	if current.ID != r2.ID {
		t.Fatalf("CurrentRound id = %d, want %d", current.ID, r2.ID)
	}
}

func TestMemoryCreateRoundConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	const callers = 16
	var wg sync.WaitGroup
	created := make(chan struct{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.CreateRound(ctx); err == nil {
				created <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(created)

	count := 0
	for range created {
		count++
	}
	if count != 1 {
		t.Fatalf("concurrent CreateRound succeeded %d times, want exactly 1", count)
	}
}

func TestMemoryDrawAtMostOnce(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	r, err := m.CreateRound(ctx)
	if err != nil {
		t.Fatalf("CreateRound: %v", err)
	}

	if _, err := m.CreateDraw(ctx, draw.Draw{RoundID: r.ID + 99, Numbers: []int{1, 2, 3, 4, 5, 6}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CreateDraw for missing round = %v, want ErrNotFound", err)
	}

	d, err := m.CreateDraw(ctx, draw.Draw{RoundID: r.ID, Numbers: []int{1, 2, 3, 4, 5, 6}})
	if err != nil {
		t.Fatalf("CreateDraw: %v", err)
	}
	if d.ID == 0 || d.DrawnAt.IsZero() {
		t.Fatalf("draw = %+v, want assigned id and timestamp", d)
	}

	if _, err := m.CreateDraw(ctx, draw.Draw{RoundID: r.ID, Numbers: []int{7, 8, 9, 10, 11, 12}}); !errors.Is(err, ErrDrawExists) {
		t.Fatalf("second CreateDraw = %v, want ErrDrawExists", err)
	}

	got, err := m.GetDrawByRound(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetDrawByRound: %v", err)
	}
	if got.Numbers[0] != 1 {
		t.Fatalf("stored draw numbers = %v, want first insert preserved", got.Numbers)
	}
}

func TestMemoryTicketImmutability(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	r, err := m.CreateRound(ctx)
	if err != nil {
		t.Fatalf("CreateRound: %v", err)
	}

	nums := []int{6, 5, 4, 3, 2, 1}
	created, err := m.CreateTicket(ctx, ticket.Ticket{RoundID: r.ID, PersonalID: "alice", Numbers: nums})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	// Mutating the caller's slice must not leak into the store.
	nums[0] = 45
	created.Numbers[1] = 44

	got, err := m.GetTicket(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if got.Numbers[0] != 6 || got.Numbers[1] != 5 {
		t.Fatalf("stored numbers = %v, want [6 5 4 3 2 1] untouched", got.Numbers)
	}
}
