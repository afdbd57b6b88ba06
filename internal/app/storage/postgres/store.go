// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kierros-labs/lottery-service/internal/app/domain/draw"
	"github.com/kierros-labs/lottery-service/internal/app/domain/round"
	"github.com/kierros-labs/lottery-service/internal/app/domain/ticket"
	"github.com/kierros-labs/lottery-service/internal/app/domain/user"
	"github.com/kierros-labs/lottery-service/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL. The contended
// invariants are enforced by the schema: a partial unique index keeps at most
// one active round, and draws.round_id is unique. The store maps those
// constraint violations onto the storage sentinels so racing writers observe
// a clean business-rule rejection rather than a raw driver error.
type Store struct {
	db *sqlx.DB
}

var _ storage.RoundStore = (*Store)(nil)
var _ storage.TicketStore = (*Store)(nil)
var _ storage.DrawStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Row types keep the nullable-column handling out of the domain structs.

type roundRow struct {
	ID          int64        `db:"id"`
	RoundNumber int64        `db:"round_number"`
	IsActive    bool         `db:"is_active"`
	CreatedAt   time.Time    `db:"created_at"`
	ClosedAt    sql.NullTime `db:"closed_at"`
}

func (r roundRow) toDomain() round.Round {
	out := round.Round{
		ID:          r.ID,
		RoundNumber: r.RoundNumber,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt.UTC(),
	}
	if r.ClosedAt.Valid {
		out.ClosedAt = r.ClosedAt.Time.UTC()
	}
	return out
}

type ticketRow struct {
	ID         string        `db:"id"`
	RoundID    int64         `db:"round_id"`
	PersonalID string        `db:"personal_id"`
	Numbers    pq.Int64Array `db:"numbers"`
	CreatedAt  time.Time     `db:"created_at"`
}

func (t ticketRow) toDomain() ticket.Ticket {
	return ticket.Ticket{
		ID:         t.ID,
		RoundID:    t.RoundID,
		PersonalID: t.PersonalID,
		Numbers:    fromInt64Array(t.Numbers),
		CreatedAt:  t.CreatedAt.UTC(),
	}
}

type drawRow struct {
	ID      int64         `db:"id"`
	RoundID int64         `db:"round_id"`
	Numbers pq.Int64Array `db:"numbers"`
	DrawnAt time.Time     `db:"drawn_at"`
}

func (d drawRow) toDomain() draw.Draw {
	return draw.Draw{
		ID:      d.ID,
		RoundID: d.RoundID,
		Numbers: fromInt64Array(d.Numbers),
		DrawnAt: d.DrawnAt.UTC(),
	}
}

type userRow struct {
	ID        string         `db:"id"`
	Email     string         `db:"email"`
	Name      sql.NullString `db:"name"`
	CreatedAt time.Time      `db:"created_at"`
	LastLogin sql.NullTime   `db:"last_login"`
}

func (u userRow) toDomain() user.User {
	out := user.User{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC(),
	}
	if u.Name.Valid {
		out.Name = u.Name.String
	}
	if u.LastLogin.Valid {
		out.LastLogin = u.LastLogin.Time.UTC()
	}
	return out
}

// RoundStore --------------------------------------------------------------

func (s *Store) CreateRound(ctx context.Context) (round.Round, error) {
	// The round number is derived and the row inserted in one statement; the
	// partial unique index rounds_one_active rejects the insert if another
	// active round won the race.
	var row roundRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO rounds (round_number, is_active)
		VALUES ((SELECT COALESCE(MAX(round_number), 0) + 1 FROM rounds), TRUE)
		RETURNING id, round_number, is_active, created_at, closed_at
	`)
	if err != nil {
		if isUniqueViolation(err) {
			return round.Round{}, storage.ErrActiveRoundExists
		}
		return round.Round{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) CurrentRound(ctx context.Context) (round.Round, error) {
	var row roundRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, round_number, is_active, created_at, closed_at
		FROM rounds
		ORDER BY id DESC
		LIMIT 1
	`)
	if err != nil {
		return round.Round{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) GetRound(ctx context.Context, id int64) (round.Round, error) {
	var row roundRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, round_number, is_active, created_at, closed_at
		FROM rounds
		WHERE id = $1
	`, id)
	if err != nil {
		return round.Round{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) CloseRound(ctx context.Context, id int64) (round.Round, error) {
	var row roundRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE rounds
		SET is_active = FALSE, closed_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING id, round_number, is_active, created_at, closed_at
	`, id)
	if err != nil {
		return round.Round{}, err
	}
	return row.toDomain(), nil
}

// TicketStore -------------------------------------------------------------

func (s *Store) CreateTicket(ctx context.Context, t ticket.Ticket) (ticket.Ticket, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	var row ticketRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO tickets (id, round_id, personal_id, numbers)
		VALUES ($1, $2, $3, $4)
		RETURNING id, round_id, personal_id, numbers, created_at
	`, t.ID, t.RoundID, t.PersonalID, toInt64Array(t.Numbers))
	if err != nil {
		return ticket.Ticket{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) GetTicket(ctx context.Context, id string) (ticket.Ticket, error) {
	var row ticketRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, round_id, personal_id, numbers, created_at
		FROM tickets
		WHERE id = $1
	`, id)
	if err != nil {
		return ticket.Ticket{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) ListTicketsByRound(ctx context.Context, roundID int64) ([]ticket.Ticket, error) {
	var rows []ticketRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, round_id, personal_id, numbers, created_at
		FROM tickets
		WHERE round_id = $1
		ORDER BY created_at
	`, roundID)
	if err != nil {
		return nil, err
	}

	result := make([]ticket.Ticket, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// DrawStore ---------------------------------------------------------------

func (s *Store) CreateDraw(ctx context.Context, d draw.Draw) (draw.Draw, error) {
	var row drawRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO draws (round_id, numbers)
		VALUES ($1, $2)
		RETURNING id, round_id, numbers, drawn_at
	`, d.RoundID, toInt64Array(d.Numbers))
	if err != nil {
		if isUniqueViolation(err) {
			return draw.Draw{}, storage.ErrDrawExists
		}
		return draw.Draw{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) GetDrawByRound(ctx context.Context, roundID int64) (draw.Draw, error) {
	var row drawRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, round_id, numbers, drawn_at
		FROM draws
		WHERE round_id = $1
	`, roundID)
	if err != nil {
		return draw.Draw{}, err
	}
	return row.toDomain(), nil
}

// UserStore ---------------------------------------------------------------

func (s *Store) UpsertUser(ctx context.Context, u user.User) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO users (id, email, name, last_login)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, last_login = NOW()
		RETURNING id, email, name, created_at, last_login
	`, u.ID, u.Email, toNullString(u.Name))
	if err != nil {
		return user.User{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, name, created_at, last_login
		FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		return user.User{}, err
	}
	return row.toDomain(), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func toInt64Array(nums []int) pq.Int64Array {
	out := make(pq.Int64Array, len(nums))
	for i, n := range nums {
		out[i] = int64(n)
	}
	return out
}

func fromInt64Array(arr pq.Int64Array) []int {
	out := make([]int, len(arr))
	for i, n := range arr {
		out[i] = int(n)
	}
	return out
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
