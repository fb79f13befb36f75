package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	apperrors "github.com/xyz-asif/bloghunt/pkg/errors"
)

// ErrEmailTaken is returned by stores when the unique email constraint fires
var ErrEmailTaken = apperrors.Conflict("User already exists")

// ErrUserNotFound is returned by Update when the user does not exist
var ErrUserNotFound = apperrors.NotFound("User not found")

// Store persists users. Lookups return (nil, nil) when nothing matches.
type Store interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) (*User, error)
	Count(ctx context.Context) (int64, error)
}
