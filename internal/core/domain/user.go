package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role enumerates the access levels a user can hold.
type Role string

const (
	RoleClient     Role = "client"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// ValidRole reports whether the value is one of the known roles.
func ValidRole(value string) bool {
	switch Role(value) {
	case RoleClient, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// User mirrors the persisted representation in the users collection.
// An unverified user keeps a hashed one-time code and its expiry; both are
// cleared the moment verification succeeds.
type User struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	Email                 string             `bson:"email"`
	PasswordHash          string             `bson:"password"`
	Name                  string             `bson:"name"`
	Role                  Role               `bson:"role"`
	Verified              bool               `bson:"verified"`
	VerificationCodeHash  string             `bson:"verificationCode,omitempty"`
	VerificationExpiresAt *time.Time         `bson:"verificationExpires,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt"`
}
