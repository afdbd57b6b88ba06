package ticket

import "time"

// Ticket is one participant's purchased set of chosen numbers for a specific
// round. Tickets are immutable once created; the numbers keep the order the
// buyer chose them in.
type Ticket struct {
	ID         string    `json:"id"`
	RoundID    int64     `json:"round_id"`
	PersonalID string    `json:"personal_id"`
	Numbers    []int     `json:"numbers"`
	CreatedAt  time.Time `json:"created_at"`
}
