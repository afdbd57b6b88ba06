// Package numbers validates lottery number sets and computes ticket/draw
// matches. Both operations are pure and shared by ticket admission and draw
// recording.
package numbers

import "fmt"

// Domain limits for a number set.
const (
	MinCount  = 6
	MaxCount  = 10
	MinNumber = 1
	MaxNumber = 45
)

// Rule names the validation rule that rejected a number set.
type Rule string

const (
	RuleCount     Rule = "count"
	RuleRange     Rule = "range"
	RuleDuplicate Rule = "duplicate"
)

// ValidationError reports which rule a number set failed.
type ValidationError struct {
	Rule    Rule
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks a candidate number set against the domain rules. Rules are
// applied in order and the first failure wins, so error reporting is
// deterministic: count, then range, then uniqueness.
func Validate(nums []int) error {
	if len(nums) < MinCount || len(nums) > MaxCount {
		return &ValidationError{
			Rule:    RuleCount,
			Message: fmt.Sprintf("must provide between %d and %d numbers, got %d", MinCount, MaxCount, len(nums)),
		}
	}
	for _, n := range nums {
		if n < MinNumber || n > MaxNumber {
			return &ValidationError{
				Rule:    RuleRange,
				Message: fmt.Sprintf("number %d out of range [%d, %d]", n, MinNumber, MaxNumber),
			}
		}
	}
	seen := make(map[int]bool, len(nums))
	for _, n := range nums {
		if seen[n] {
			return &ValidationError{
				Rule:    RuleDuplicate,
				Message: fmt.Sprintf("number %d appears more than once", n),
			}
		}
		seen[n] = true
	}
	return nil
}

// MatchResult holds the intersection of a ticket's numbers with a round's
// drawn numbers.
type MatchResult struct {
	MatchedNumbers []int `json:"matched_numbers"`
	MatchedCount   int   `json:"matched_count"`
}

// Match computes the intersection of ticketNumbers and drawnNumbers,
// preserving ticket order. The second return value is false when drawnNumbers
// is empty or absent: "no results yet" is distinct from "zero matches".
func Match(ticketNumbers, drawnNumbers []int) (MatchResult, bool) {
	if len(drawnNumbers) == 0 {
		return MatchResult{}, false
	}

	drawn := make(map[int]bool, len(drawnNumbers))
	for _, n := range drawnNumbers {
		drawn[n] = true
	}

	matched := make([]int, 0, len(ticketNumbers))
	for _, n := range ticketNumbers {
		if drawn[n] {
			matched = append(matched, n)
		}
	}
	return MatchResult{MatchedNumbers: matched, MatchedCount: len(matched)}, true
}
