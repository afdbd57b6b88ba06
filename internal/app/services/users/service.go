// Package users mirrors identity-provider profiles into local storage.
package users

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/kierros-labs/lottery-service/internal/errors"

	"github.com/kierros-labs/lottery-service/internal/app/domain/user"
	"github.com/kierros-labs/lottery-service/internal/app/storage"
	"github.com/kierros-labs/lottery-service/internal/logging"
)

// Service upserts and retrieves user records.
type Service struct {
	store storage.UserStore
	log   *logging.Logger
}

// New constructs a users service.
func New(store storage.UserStore, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{store: store, log: log}
}

// Upsert records a login: the profile is created on first sight and its
// email, name and last-login timestamp refreshed on every subsequent call.
func (s *Service) Upsert(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		return user.User{}, apperrors.Validation("user id is required")
	}
	if u.Email == "" {
		return user.User{}, apperrors.Validation("email is required")
	}

	saved, err := s.store.UpsertUser(ctx, u)
	if err != nil {
		return user.User{}, fmt.Errorf("upsert user: %w", err)
	}

	s.log.WithContext(ctx).WithField("user_id", saved.ID).Debug("user profile refreshed")

	return saved, nil
}

// Get retrieves a user by id.
func (s *Service) Get(ctx context.Context, id string) (user.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return user.User{}, apperrors.NotFound("user")
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
