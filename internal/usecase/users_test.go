package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/domain"
)

func seedUser(t *testing.T, repo *memUserRepo, role domain.Role) domain.User {
	t.Helper()
	user := domain.User{
		ID:        primitive.NewObjectID(),
		Email:     primitive.NewObjectID().Hex() + "@example.com",
		Name:      "Seeded User",
		Role:      role,
		Verified:  true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	svc := NewUserService(repo, zap.NewNop())
	user := seedUser(t, repo, domain.RoleClient)

	t.Run("promotes to admin", func(t *testing.T) {
		updated, err := svc.UpdateRole(ctx, user.ID, "admin")
		if err != nil {
			t.Fatalf("UpdateRole: %v", err)
		}
		if updated.Role != domain.RoleAdmin {
			t.Fatalf("expected admin role, got %q", updated.Role)
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := svc.UpdateRole(ctx, user.ID, "owner")
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateRole(ctx, primitive.NewObjectID(), "admin")
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestDeleteUserForbidsSelfDelete(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	actor := seedUser(t, repo, domain.RoleSuperadmin)
	victim := seedUser(t, repo, domain.RoleClient)

	if err := svc.Delete(ctx, &actor, actor.ID); !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
	if _, err := repo.GetByID(ctx, actor.ID); err != nil {
		t.Fatalf("actor account should survive self delete attempt: %v", err)
	}

	if err := svc.Delete(ctx, &actor, victim.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, victim.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
}

func TestDeleteUnknownUser(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, zap.NewNop())
	actor := seedUser(t, repo, domain.RoleSuperadmin)

	err := svc.Delete(context.Background(), &actor, primitive.NewObjectID())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, zap.NewNop())
	seedUser(t, repo, domain.RoleClient)
	seedUser(t, repo, domain.RoleAdmin)

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
