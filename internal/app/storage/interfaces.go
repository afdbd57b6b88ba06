// Package storage defines the persistence interfaces for the lottery core and
// provides a thread-safe in-memory implementation.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kierros-labs/lottery-service/internal/app/domain/draw"
	"github.com/kierros-labs/lottery-service/internal/app/domain/round"
	"github.com/kierros-labs/lottery-service/internal/app/domain/ticket"
	"github.com/kierros-labs/lottery-service/internal/app/domain/user"
)

// ErrNotFound signals that a lookup matched nothing. Aliased to sql.ErrNoRows
// so SQL-backed stores signal it without translation.
var ErrNotFound = sql.ErrNoRows

var (
	// ErrActiveRoundExists rejects a round insert while another round is
	// active. Backed by a uniqueness guard in every implementation, so a
	// racing check-then-insert loses cleanly instead of creating a second
	// active round.
	ErrActiveRoundExists = errors.New("an active round already exists")

	// ErrDrawExists rejects a second draw for the same round.
	ErrDrawExists = errors.New("a draw already exists for this round")
)

// RoundStore persists lottery rounds.
type RoundStore interface {
	// CreateRound inserts a new active round with the next sequential round
	// number, as one atomic unit. Returns ErrActiveRoundExists if a round is
	// still active.
	CreateRound(ctx context.Context) (round.Round, error)
	// CurrentRound returns the most recently created round (highest id).
	CurrentRound(ctx context.Context) (round.Round, error)
	GetRound(ctx context.Context, id int64) (round.Round, error)
	// CloseRound marks the round inactive and stamps the closing time, keyed
	// by id and conditional on the round still being active. Returns
	// ErrNotFound when no active round matched.
	CloseRound(ctx context.Context, id int64) (round.Round, error)
}

// TicketStore persists tickets.
type TicketStore interface {
	CreateTicket(ctx context.Context, t ticket.Ticket) (ticket.Ticket, error)
	GetTicket(ctx context.Context, id string) (ticket.Ticket, error)
	ListTicketsByRound(ctx context.Context, roundID int64) ([]ticket.Ticket, error)
}

// DrawStore persists draw results.
type DrawStore interface {
	// CreateDraw inserts the draw for a round. Returns ErrDrawExists when a
	// draw was already recorded for that round.
	CreateDraw(ctx context.Context, d draw.Draw) (draw.Draw, error)
	GetDrawByRound(ctx context.Context, roundID int64) (draw.Draw, error)
}

// UserStore persists identity records mirrored from the identity provider.
type UserStore interface {
	// UpsertUser inserts the user or, if it exists, refreshes email, name and
	// last-login.
	UpsertUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
}
