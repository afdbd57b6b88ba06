package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kierros-labs/lottery-service/internal/app/domain/draw"
	"github.com/kierros-labs/lottery-service/internal/app/domain/round"
	"github.com/kierros-labs/lottery-service/internal/app/domain/ticket"
	"github.com/kierros-labs/lottery-service/internal/app/domain/user"
)

// Memory is a thread-safe in-memory persistence layer implementing the
// storage interfaces defined in this package. It is intended for tests and
// prototyping and deliberately keeps the implementation simple, while still
// honoring the same uniqueness guards as the SQL store: every check-then-write
// happens under one lock, so the single-active-round and one-draw-per-round
// invariants hold under concurrent use.
type Memory struct {
	mu          sync.RWMutex
	nextRoundID int64
	nextDrawID  int64
	rounds      map[int64]round.Round
	tickets     map[string]ticket.Ticket
	draws       map[int64]draw.Draw // keyed by round id
	users       map[string]user.User
}

var _ RoundStore = (*Memory)(nil)
var _ TicketStore = (*Memory)(nil)
var _ DrawStore = (*Memory)(nil)
var _ UserStore = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		nextRoundID: 1,
		nextDrawID:  1,
		rounds:      make(map[int64]round.Round),
		tickets:     make(map[string]ticket.Ticket),
		draws:       make(map[int64]draw.Draw),
		users:       make(map[string]user.User),
	}
}

// RoundStore implementation --------------------------------------------------

func (m *Memory) CreateRound(_ context.Context) (round.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastNumber int64
	for _, r := range m.rounds {
		if r.IsActive {
			return round.Round{}, ErrActiveRoundExists
		}
		if r.RoundNumber > lastNumber {
			lastNumber = r.RoundNumber
		}
	}

	r := round.Round{
		ID:          m.nextRoundID,
		RoundNumber: lastNumber + 1,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	m.nextRoundID++
	m.rounds[r.ID] = r
	return r, nil
}

func (m *Memory) CurrentRound(_ context.Context) (round.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var current round.Round
	found := false
	for _, r := range m.rounds {
		if !found || r.ID > current.ID {
			current = r
			found = true
		}
	}
	if !found {
		return round.Round{}, ErrNotFound
	}
	return current, nil
}

func (m *Memory) GetRound(_ context.Context, id int64) (round.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rounds[id]
	if !ok {
		return round.Round{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) CloseRound(_ context.Context, id int64) (round.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rounds[id]
	if !ok || !r.IsActive {
		return round.Round{}, ErrNotFound
	}
	r.IsActive = false
	r.ClosedAt = time.Now().UTC()
	m.rounds[id] = r
	return r, nil
}

// TicketStore implementation -------------------------------------------------

func (m *Memory) CreateTicket(_ context.Context, t ticket.Ticket) (ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rounds[t.RoundID]; !ok {
		return ticket.Ticket{}, ErrNotFound
	}

	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	t.Numbers = append([]int(nil), t.Numbers...)
	m.tickets[t.ID] = t
	return cloneTicket(t), nil
}

func (m *Memory) GetTicket(_ context.Context, id string) (ticket.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tickets[id]
	if !ok {
		return ticket.Ticket{}, ErrNotFound
	}
	return cloneTicket(t), nil
}

func (m *Memory) ListTicketsByRound(_ context.Context, roundID int64) ([]ticket.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ticket.Ticket
	for _, t := range m.tickets {
		if t.RoundID == roundID {
			result = append(result, cloneTicket(t))
		}
	}
	return result, nil
}

// DrawStore implementation ---------------------------------------------------

func (m *Memory) CreateDraw(_ context.Context, d draw.Draw) (draw.Draw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rounds[d.RoundID]; !ok {
		return draw.Draw{}, ErrNotFound
	}
	if _, ok := m.draws[d.RoundID]; ok {
		return draw.Draw{}, ErrDrawExists
	}

	d.ID = m.nextDrawID
	m.nextDrawID++
	d.DrawnAt = time.Now().UTC()
	d.Numbers = append([]int(nil), d.Numbers...)
	m.draws[d.RoundID] = d
	return cloneDraw(d), nil
}

func (m *Memory) GetDrawByRound(_ context.Context, roundID int64) (draw.Draw, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.draws[roundID]
	if !ok {
		return draw.Draw{}, ErrNotFound
	}
	return cloneDraw(d), nil
}

// UserStore implementation ---------------------------------------------------

func (m *Memory) UpsertUser(_ context.Context, u user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := m.users[u.ID]; ok {
		existing.Email = u.Email
		existing.Name = u.Name
		existing.LastLogin = now
		m.users[u.ID] = existing
		return existing, nil
	}

	u.CreatedAt = now
	u.LastLogin = now
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) GetUser(_ context.Context, id string) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return user.User{}, ErrNotFound
	}
	return u, nil
}

func cloneTicket(t ticket.Ticket) ticket.Ticket {
	t.Numbers = append([]int(nil), t.Numbers...)
	return t
}

func cloneDraw(d draw.Draw) draw.Draw {
	d.Numbers = append([]int(nil), d.Numbers...)
	return d
}
