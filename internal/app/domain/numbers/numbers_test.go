package numbers

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateAcceptsValidSets(t *testing.T) {
	cases := [][]int{
		{1, 2, 3, 4, 5, 6},
		{45, 44, 43, 42, 41, 40},
		{7, 3, 19, 45, 1, 22, 30},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}
	for _, nums := range cases {
		if err := Validate(nums); err != nil {
			t.Fatalf("Validate(%v) = %v, want nil", nums, err)
		}
	}
}

func TestValidateRejectsBadCount(t *testing.T) {
	cases := [][]int{
		nil,
		{},
		{1, 2, 3, 4, 5},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	}
	for _, nums := range cases {
		err := Validate(nums)
		if err == nil {
			t.Fatalf("Validate(%v) = nil, want count error", nums)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Rule != RuleCount {
			t.Fatalf("Validate(%v) rule = %v, want %v", nums, err, RuleCount)
		}
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cases := [][]int{
		{0, 2, 3, 4, 5, 6},
		{1, 2, 3, 4, 5, 46},
		{-3, 2, 3, 4, 5, 6},
	}
	for _, nums := range cases {
		err := Validate(nums)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Rule != RuleRange {
			t.Fatalf("Validate(%v) = %v, want range error", nums, err)
		}
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	err := Validate([]int{5, 12, 23, 5, 40, 31})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Rule != RuleDuplicate {
		t.Fatalf("Validate(duplicates) = %v, want duplicate error", err)
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	// Too short and out of range: the count rule must win.
	err := Validate([]int{99, 99})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Rule != RuleCount {
		t.Fatalf("Validate short+invalid = %v, want count error first", err)
	}

	// Out of range and duplicated: the range rule must win.
	err = Validate([]int{99, 99, 1, 2, 3, 4})
	if !errors.As(err, &verr) || verr.Rule != RuleRange {
		t.Fatalf("Validate invalid+duplicate = %v, want range error first", err)
	}
}

func TestMatchIntersection(t *testing.T) {
	result, ok := Match([]int{1, 2, 3, 4, 5, 6}, []int{4, 5, 6, 7, 8, 9})
	if !ok {
		t.Fatal("Match returned unavailable for present draw numbers")
	}
	if result.MatchedCount != 3 {
		t.Fatalf("MatchedCount = %d, want 3", result.MatchedCount)
	}
	if !reflect.DeepEqual(result.MatchedNumbers, []int{4, 5, 6}) {
		t.Fatalf("MatchedNumbers = %v, want [4 5 6]", result.MatchedNumbers)
	}
}

func TestMatchDisjoint(t *testing.T) {
	result, ok := Match([]int{1, 2, 3}, []int{10, 11, 12})
	if !ok {
		t.Fatal("Match returned unavailable for present draw numbers")
	}
	if result.MatchedCount != 0 {
		t.Fatalf("MatchedCount = %d, want 0", result.MatchedCount)
	}
	if len(result.MatchedNumbers) != 0 {
		t.Fatalf("MatchedNumbers = %v, want empty", result.MatchedNumbers)
	}
}

func TestMatchPreservesTicketOrder(t *testing.T) {
	result, ok := Match([]int{30, 1, 22, 9}, []int{9, 30, 2})
	if !ok {
		t.Fatal("Match returned unavailable")
	}
	if !reflect.DeepEqual(result.MatchedNumbers, []int{30, 9}) {
		t.Fatalf("MatchedNumbers = %v, want ticket order [30 9]", result.MatchedNumbers)
	}
}

func TestMatchUnavailableWhenNoDraw(t *testing.T) {
	if _, ok := Match([]int{1, 2, 3, 4, 5, 6}, nil); ok {
		t.Fatal("Match(nil draw) ok = true, want false")
	}
	if _, ok := Match([]int{1, 2, 3, 4, 5, 6}, []int{}); ok {
		t.Fatal("Match(empty draw) ok = true, want false")
	}
}
