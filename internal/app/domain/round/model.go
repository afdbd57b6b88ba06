package round

import "time"

// Round represents one lottery cycle: open for ticket sales, then closed and
// assigned drawn numbers. At most one round is active at any time.
type Round struct {
	ID          int64     `json:"id"`
	RoundNumber int64     `json:"round_number"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	ClosedAt    time.Time `json:"closed_at"`
}
