package draw

import "time"

// Draw holds the official drawn numbers for a closed round. One draw per
// round, recorded once, immutable thereafter.
type Draw struct {
	ID      int64     `json:"id"`
	RoundID int64     `json:"round_id"`
	Numbers []int     `json:"numbers"`
	DrawnAt time.Time `json:"drawn_at"`
}
