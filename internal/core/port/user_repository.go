package port

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arklim/shoplite-api/internal/core/domain"
)

// UserRepository persists user accounts and their verification state.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// SetVerificationCode replaces the stored code hash and expiry.
	SetVerificationCode(ctx context.Context, id primitive.ObjectID, codeHash string, expiresAt time.Time) error
	// MarkVerified sets the verified flag and clears the code and expiry.
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	UpdateRole(ctx context.Context, id primitive.ObjectID, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
