package users

import (
	"context"
	"testing"

	apperrors "github.com/kierros-labs/lottery-service/internal/errors"

	"github.com/kierros-labs/lottery-service/internal/app/domain/user"
	"github.com/kierros-labs/lottery-service/internal/app/storage"
	"github.com/kierros-labs/lottery-service/internal/logging"
)

func newService() *Service {
	return New(storage.NewMemory(), logging.NewNop())
}

func TestUpsertCreatesAndRefreshes(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	first, err := svc.Upsert(ctx, user.User{ID: "auth0|123", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
	if first.LastLogin.IsZero() {
		t.Fatal("expected last_login to be set")
	}

	second, err := svc.Upsert(ctx, user.User{ID: "auth0|123", Email: "b@example.com", Name: "Alice"})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if second.Email != "b@example.com" {
		t.Fatalf("email = %q, want refreshed value", second.Email)
	}
	if second.Name != "Alice" {
		t.Fatalf("name = %q, want Alice", second.Name)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("created_at changed on refresh")
	}
}

func TestUpsertValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, u := range []user.User{
		{Email: "a@example.com"},
		{ID: "auth0|123"},
	} {
		_, err := svc.Upsert(ctx, u)
		serr := apperrors.GetServiceError(err)
		if serr == nil || serr.Code != apperrors.CodeValidation {
			t.Fatalf("err = %v, want validation error", err)
		}
	}
}

func TestGetMissingUser(t *testing.T) {
	svc := newService()

	_, err := svc.Get(context.Background(), "auth0|missing")
	serr := apperrors.GetServiceError(err)
	if serr == nil || serr.Code != apperrors.CodeNotFound {
		t.Fatalf("err = %v, want not-found error", err)
	}
}
