// Package app wires the domain services to their stores.
package app

import (
	"github.com/kierros-labs/lottery-service/internal/app/services/draws"
	"github.com/kierros-labs/lottery-service/internal/app/services/rounds"
	"github.com/kierros-labs/lottery-service/internal/app/services/tickets"
	"github.com/kierros-labs/lottery-service/internal/app/services/users"
	"github.com/kierros-labs/lottery-service/internal/app/storage"
	"github.com/kierros-labs/lottery-service/internal/logging"
)

// Stores encapsulates persistence dependencies. Nil stores default to a
// shared in-memory implementation.
type Stores struct {
	Rounds  storage.RoundStore
	Tickets storage.TicketStore
	Draws   storage.DrawStore
	Users   storage.UserStore
}

// Application ties the domain services together.
type Application struct {
	log *logging.Logger

	Rounds  *rounds.Service
	Tickets *tickets.Service
	Draws   *draws.Service
	Users   *users.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logging.Logger) *Application {
	if log == nil {
		log = logging.NewDefault("app")
	}

	mem := storage.NewMemory()
	if stores.Rounds == nil {
		stores.Rounds = mem
	}
	if stores.Tickets == nil {
		stores.Tickets = mem
	}
	if stores.Draws == nil {
		stores.Draws = mem
	}
	if stores.Users == nil {
		stores.Users = mem
	}

	return &Application{
		log:     log,
		Rounds:  rounds.New(stores.Rounds, log),
		Tickets: tickets.New(stores.Tickets, stores.Rounds, stores.Draws, log),
		Draws:   draws.New(stores.Draws, stores.Rounds, log),
		Users:   users.New(stores.Users, log),
	}
}

// Logger exposes the application logger.
func (a *Application) Logger() *logging.Logger {
	return a.log
}
