// Package draws records the single winning draw of a closed round.
package draws

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/kierros-labs/lottery-service/internal/errors"

	"github.com/kierros-labs/lottery-service/internal/app/domain/draw"
	"github.com/kierros-labs/lottery-service/internal/app/domain/numbers"
	"github.com/kierros-labs/lottery-service/internal/app/metrics"
	"github.com/kierros-labs/lottery-service/internal/app/storage"
	"github.com/kierros-labs/lottery-service/internal/logging"
)

// Service records and retrieves draw results.
type Service struct {
	draws  storage.DrawStore
	rounds storage.RoundStore
	log    *logging.Logger
}

// New constructs a draws service.
func New(draws storage.DrawStore, rounds storage.RoundStore, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{draws: draws, rounds: rounds, log: log}
}

// Store records the winning numbers for the latest round. The round must be
// closed and must not have a draw yet; a round accepts exactly one draw. The
// existing-draw lookup is a courtesy check, the unique constraint on the
// draw's round is what decides concurrent recorders.
func (s *Service) Store(ctx context.Context, nums []int) (draw.Draw, error) {
	if err := numbers.Validate(nums); err != nil {
		var verr *numbers.ValidationError
		if errors.As(err, &verr) {
			return draw.Draw{}, apperrors.Validation(verr.Message).
				WithDetails("rule", string(verr.Rule)).
				WithDetails("numbers", nums)
		}
		return draw.Draw{}, apperrors.Validation(err.Error())
	}

	current, err := s.rounds.CurrentRound(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return draw.Draw{}, apperrors.Validation("no round exists to record a draw for")
	}
	if err != nil {
		return draw.Draw{}, fmt.Errorf("current round: %w", err)
	}
	if current.IsActive {
		return draw.Draw{}, apperrors.Validation("round must be closed before recording a draw")
	}

	if _, err := s.draws.GetDrawByRound(ctx, current.ID); err == nil {
		return draw.Draw{}, apperrors.Validation("draw already recorded for this round")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return draw.Draw{}, fmt.Errorf("get draw: %w", err)
	}

	created, err := s.draws.CreateDraw(ctx, draw.Draw{
		RoundID: current.ID,
		Numbers: nums,
	})
	if errors.Is(err, storage.ErrDrawExists) {
		return draw.Draw{}, apperrors.Validation("draw already recorded for this round")
	}
	if err != nil {
		return draw.Draw{}, fmt.Errorf("create draw: %w", err)
	}

	s.log.WithContext(ctx).
		WithField("draw_id", created.ID).
		WithField("round_id", created.RoundID).
		Info("draw recorded")
	metrics.RecordDrawRecorded()

	return created, nil
}

// ForRound returns the draw recorded for the given round. ok is false when
// the round has no draw yet, which is an absent value rather than a fault.
func (s *Service) ForRound(ctx context.Context, roundID int64) (draw.Draw, bool, error) {
	d, err := s.draws.GetDrawByRound(ctx, roundID)
	if errors.Is(err, storage.ErrNotFound) {
		return draw.Draw{}, false, nil
	}
	if err != nil {
		return draw.Draw{}, false, fmt.Errorf("get draw: %w", err)
	}
	return d, true, nil
}
