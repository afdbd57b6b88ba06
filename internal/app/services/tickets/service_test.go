package tickets

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/kierros-labs/lottery-service/internal/errors"

	"github.com/kierros-labs/lottery-service/internal/app/domain/draw"
	"github.com/kierros-labs/lottery-service/internal/app/storage"
	"github.com/kierros-labs/lottery-service/internal/logging"
)

func drawFor(roundID int64, nums []int) draw.Draw {
	return draw.Draw{RoundID: roundID, Numbers: nums}
}

func newFixture(t *testing.T) (*Service, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	return New(mem, mem, mem, logging.NewNop()), mem
}

func mustOpenRound(t *testing.T, mem *storage.Memory) int64 {
	t.Helper()
	r, err := mem.CreateRound(context.Background())
	if err != nil {
		t.Fatalf("create round: %v", err)
	}
	return r.ID
}

func TestCreateValidTicket(t *testing.T) {
	svc, mem := newFixture(t)
	ctx := context.Background()
	roundID := mustOpenRound(t, mem)

	got, err := svc.Create(ctx, roundID, "alice", []int{5, 12, 23, 34, 41, 45})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID == "" {
		t.Fatal("expected ticket id to be assigned")
	}
	if got.RoundID != roundID {
		t.Fatalf("round id = %d, want %d", got.RoundID, roundID)
	}
}

func TestCreateRejectsBadPersonalID(t *testing.T) {
	svc, mem := newFixture(t)
	ctx := context.Background()
	roundID := mustOpenRound(t, mem)

	cases := []struct {
		name       string
		personalID string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("x", 21)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, roundID, tc.personalID, []int{1, 2, 3, 4, 5, 6})
			serr := apperrors.GetServiceError(err)
			if serr == nil || serr.Code != apperrors.CodeValidation {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestCreateRejectsBadNumbers(t *testing.T) {
	svc, mem := newFixture(t)
	ctx := context.Background()
	roundID := mustOpenRound(t, mem)

	cases := []struct {
		name string
		nums []int
	}{
		{"too few", []int{1, 2, 3, 4, 5}},
		{"too many", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
		{"out of range", []int{1, 2, 3, 4, 5, 46}},
		{"duplicate", []int{1, 2, 3, 4, 5, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, roundID, "alice", tc.nums)
			serr := apperrors.GetServiceError(err)
			if serr == nil || serr.Code != apperrors.CodeValidation {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestCreateRejectsClosedRound(t *testing.T) {
	svc, mem := newFixture(t)
	ctx := context.Background()
	roundID := mustOpenRound(t, mem)
	if _, err := mem.CloseRound(ctx, roundID); err != nil {
		t.Fatalf("close round: %v", err)
	}

	_, err := svc.Create(ctx, roundID, "alice", []int{1, 2, 3, 4, 5, 6})
	serr := apperrors.GetServiceError(err)
	if serr == nil || serr.Code != apperrors.CodeConflict {
		t.Fatalf("err = %v, want conflict error", err)
	}
}

func TestCreateRejectsMissingRound(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Create(context.Background(), 99, "alice", []int{1, 2, 3, 4, 5, 6})
	serr := apperrors.GetServiceError(err)
	if serr == nil || serr.Code != apperrors.CodeNotFound {
		t.Fatalf("err = %v, want not-found error", err)
	}
}

func TestListByRound(t *testing.T) {
	svc, mem := newFixture(t)
	ctx := context.Background()
	roundID := mustOpenRound(t, mem)

	for i := 0; i < 3; i++ {
		nums := []int{1 + i, 10 + i, 20 + i, 30 + i, 40 + i, 45}
		if _, err := svc.Create(ctx, roundID, "holder", nums); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	listed, err := svc.ListByRound(ctx, roundID)
	if err != nil {
		t.Fatalf("ListByRound: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("len = %d, want 3", len(listed))
	}
}

func TestResultPendingBeforeDraw(t *testing.T) {
	svc, mem := newFixture(t)
	ctx := context.Background()
	roundID := mustOpenRound(t, mem)

	tk, err := svc.Create(ctx, roundID, "alice", []int{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := svc.Result(ctx, tk.ID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Status != "pending" {
		t.Fatalf("status = %q, want pending", res.Status)
	}
	if res.Matches != nil {
		t.Fatal("pending result should carry no match evaluation")
	}
}

func TestResultAfterDraw(t *testing.T) {
	svc, mem := newFixture(t)
	ctx := context.Background()
	roundID := mustOpenRound(t, mem)

	tk, err := svc.Create(ctx, roundID, "alice", []int{30, 1, 22, 9, 15, 44})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := mem.CloseRound(ctx, roundID); err != nil {
		t.Fatalf("close round: %v", err)
	}
	if _, err := mem.CreateDraw(ctx, drawFor(roundID, []int{9, 30, 2, 40, 41, 42})); err != nil {
		t.Fatalf("create draw: %v", err)
	}

	res, err := svc.Result(ctx, tk.ID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Status != "drawn" {
		t.Fatalf("status = %q, want drawn", res.Status)
	}
	if res.Matches == nil {
		t.Fatal("expected match evaluation")
	}
	if res.Matches.MatchedCount != 2 {
		t.Fatalf("matched count = %d, want 2", res.Matches.MatchedCount)
	}
	// Matches come back in ticket order, not draw order.
	want := []int{30, 9}
	for i, n := range res.Matches.MatchedNumbers {
		if n != want[i] {
			t.Fatalf("matched numbers = %v, want %v", res.Matches.MatchedNumbers, want)
		}
	}
}

func TestResultZeroMatchesIsStillDrawn(t *testing.T) {
	svc, mem := newFixture(t)
	ctx := context.Background()
	roundID := mustOpenRound(t, mem)

	tk, err := svc.Create(ctx, roundID, "alice", []int{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	mem.CloseRound(ctx, roundID)
	if _, err := mem.CreateDraw(ctx, drawFor(roundID, []int{40, 41, 42, 43, 44, 45})); err != nil {
		t.Fatalf("create draw: %v", err)
	}

	res, err := svc.Result(ctx, tk.ID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Status != "drawn" {
		t.Fatalf("status = %q, want drawn", res.Status)
	}
	if res.Matches.MatchedCount != 0 {
		t.Fatalf("matched count = %d, want 0", res.Matches.MatchedCount)
	}
}
