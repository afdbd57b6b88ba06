// Package rounds manages the lottery round lifecycle. At most one round is
// active at a time; opening and closing are idempotent in the sense that a
// request that finds nothing to do reports a no-op rather than an error.
package rounds

import (
	"context"
	"errors"
	"fmt"

	"github.com/kierros-labs/lottery-service/internal/app/domain/round"
	"github.com/kierros-labs/lottery-service/internal/app/metrics"
	"github.com/kierros-labs/lottery-service/internal/app/storage"
	"github.com/kierros-labs/lottery-service/internal/logging"
)

// Service coordinates round lifecycle operations.
type Service struct {
	store storage.RoundStore
	log   *logging.Logger
}

// New constructs a rounds service.
func New(store storage.RoundStore, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{store: store, log: log}
}

// Current returns the latest round. ok is false when no round has ever been
// opened.
func (s *Service) Current(ctx context.Context) (round.Round, bool, error) {
	r, err := s.store.CurrentRound(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return round.Round{}, false, nil
	}
	if err != nil {
		return round.Round{}, false, fmt.Errorf("current round: %w", err)
	}
	return r, true, nil
}

// Open starts a new round. ok is false when an active round already exists,
// in which case nothing changes. Round numbers are sequential from 1.
func (s *Service) Open(ctx context.Context) (round.Round, bool, error) {
	// Courtesy check; the store's uniqueness guarantee is what actually
	// decides races between concurrent openers.
	current, err := s.store.CurrentRound(ctx)
	if err == nil && current.IsActive {
		return round.Round{}, false, nil
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return round.Round{}, false, fmt.Errorf("current round: %w", err)
	}

	created, err := s.store.CreateRound(ctx)
	if errors.Is(err, storage.ErrActiveRoundExists) {
		return round.Round{}, false, nil
	}
	if err != nil {
		return round.Round{}, false, fmt.Errorf("create round: %w", err)
	}

	s.log.WithContext(ctx).
		WithField("round_id", created.ID).
		WithField("round_number", created.RoundNumber).
		Info("round opened")
	metrics.RecordRoundOpened()

	return created, true, nil
}

// Close ends the active round. ok is false when no round is active, in which
// case nothing changes.
func (s *Service) Close(ctx context.Context) (round.Round, bool, error) {
	current, err := s.store.CurrentRound(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return round.Round{}, false, nil
	}
	if err != nil {
		return round.Round{}, false, fmt.Errorf("current round: %w", err)
	}
	if !current.IsActive {
		return round.Round{}, false, nil
	}

	closed, err := s.store.CloseRound(ctx, current.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Lost the race to another closer.
		return round.Round{}, false, nil
	}
	if err != nil {
		return round.Round{}, false, fmt.Errorf("close round: %w", err)
	}

	s.log.WithContext(ctx).
		WithField("round_id", closed.ID).
		WithField("round_number", closed.RoundNumber).
		Info("round closed")
	metrics.RecordRoundClosed()

	return closed, true, nil
}

// Get returns the round with the given id.
func (s *Service) Get(ctx context.Context, id int64) (round.Round, error) {
	r, err := s.store.GetRound(ctx, id)
	if err != nil {
		return round.Round{}, err
	}
	return r, nil
}
