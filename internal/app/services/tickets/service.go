// Package tickets admits lottery tickets into rounds and evaluates their
// results once a draw is recorded.
package tickets

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/kierros-labs/lottery-service/internal/errors"

	"github.com/kierros-labs/lottery-service/internal/app/domain/numbers"
	"github.com/kierros-labs/lottery-service/internal/app/domain/ticket"
	"github.com/kierros-labs/lottery-service/internal/app/metrics"
	"github.com/kierros-labs/lottery-service/internal/app/storage"
	"github.com/kierros-labs/lottery-service/internal/logging"
)

// MaxPersonalIDLength bounds the free-form holder identifier.
const MaxPersonalIDLength = 20

// Result pairs a ticket with its standing against the round's draw. Status is
// "pending" until the round has a recorded draw, then "drawn" with the match
// evaluation filled in. Zero matches on a drawn round is still "drawn".
type Result struct {
	Ticket  ticket.Ticket        `json:"ticket"`
	Status  string               `json:"status"`
	Drawn   []int                `json:"drawn_numbers,omitempty"`
	Matches *numbers.MatchResult `json:"matches,omitempty"`
}

// Service admits and retrieves tickets.
type Service struct {
	tickets storage.TicketStore
	rounds  storage.RoundStore
	draws   storage.DrawStore
	log     *logging.Logger
}

// New constructs a tickets service.
func New(tickets storage.TicketStore, rounds storage.RoundStore, draws storage.DrawStore, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{tickets: tickets, rounds: rounds, draws: draws, log: log}
}

// Create validates and stores a ticket for the given round. The round must
// exist and still be accepting tickets.
func (s *Service) Create(ctx context.Context, roundID int64, personalID string, nums []int) (ticket.Ticket, error) {
	if personalID == "" {
		metrics.RecordTicketRejected("personal_id")
		return ticket.Ticket{}, apperrors.Validation("personal_id is required")
	}
	if len(personalID) > MaxPersonalIDLength {
		metrics.RecordTicketRejected("personal_id")
		return ticket.Ticket{}, apperrors.Validation("personal_id must be at most 20 characters").
			WithDetails("personal_id", personalID)
	}

	if err := numbers.Validate(nums); err != nil {
		var verr *numbers.ValidationError
		if errors.As(err, &verr) {
			metrics.RecordTicketRejected(string(verr.Rule))
			return ticket.Ticket{}, apperrors.Validation(verr.Message).
				WithDetails("rule", string(verr.Rule)).
				WithDetails("numbers", nums)
		}
		metrics.RecordTicketRejected("unknown")
		return ticket.Ticket{}, apperrors.Validation(err.Error())
	}

	r, err := s.rounds.GetRound(ctx, roundID)
	if errors.Is(err, storage.ErrNotFound) {
		return ticket.Ticket{}, apperrors.NotFound("round")
	}
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("get round: %w", err)
	}
	if !r.IsActive {
		return ticket.Ticket{}, apperrors.Conflict("round is not accepting tickets")
	}

	created, err := s.tickets.CreateTicket(ctx, ticket.Ticket{
		RoundID:    roundID,
		PersonalID: personalID,
		Numbers:    nums,
	})
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("create ticket: %w", err)
	}

	s.log.WithContext(ctx).
		WithField("ticket_id", created.ID).
		WithField("round_id", roundID).
		Info("ticket admitted")
	metrics.RecordTicketSold()

	return created, nil
}

// Get retrieves a ticket by id.
func (s *Service) Get(ctx context.Context, id string) (ticket.Ticket, error) {
	t, err := s.tickets.GetTicket(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ticket.Ticket{}, apperrors.NotFound("ticket")
	}
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

// Result evaluates a ticket against its round's draw. A round without a
// recorded draw yields a pending result, which is distinct from a drawn round
// where the ticket matched nothing.
func (s *Service) Result(ctx context.Context, ticketID string) (Result, error) {
	t, err := s.Get(ctx, ticketID)
	if err != nil {
		return Result{}, err
	}

	d, err := s.draws.GetDrawByRound(ctx, t.RoundID)
	if errors.Is(err, storage.ErrNotFound) {
		return Result{Ticket: t, Status: "pending"}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("get draw: %w", err)
	}

	match, ok := numbers.Match(t.Numbers, d.Numbers)
	if !ok {
		return Result{Ticket: t, Status: "pending"}, nil
	}
	return Result{
		Ticket:  t,
		Status:  "drawn",
		Drawn:   d.Numbers,
		Matches: &match,
	}, nil
}

// ListByRound returns every ticket admitted into the given round.
func (s *Service) ListByRound(ctx context.Context, roundID int64) ([]ticket.Ticket, error) {
	return s.tickets.ListTicketsByRound(ctx, roundID)
}
