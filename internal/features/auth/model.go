package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered user in the system
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName  string             `bson:"firstName" json:"firstName"`
	LastName   string             `bson:"lastName" json:"lastName"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	GoogleID   string             `bson:"googleId,omitempty" json:"-"`
	ProfilePic string             `bson:"profilePic" json:"profilePic"`
	Bio        string             `bson:"bio" json:"bio"`
	JoinedAt   time.Time          `bson:"joinedAt" json:"joinedAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the projection of a User embedded in other resources
type PublicUser struct {
	ID         primitive.ObjectID `json:"_id"`
	FirstName  string             `json:"firstName"`
	LastName   string             `json:"lastName"`
	Email      string             `json:"email,omitempty"`
	ProfilePic string             `json:"profilePic,omitempty"`
}

// ToPublicUser returns the fields safe to embed next to blogs and comments
func (u *User) ToPublicUser() PublicUser {
	return PublicUser{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
	}
}

// UserUpdate lists the user fields to overwrite. Nil means unchanged.
type UserUpdate struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Bio        *string
	ProfilePic *string
	Password   *string
	GoogleID   *string
}

func (u UserUpdate) empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil && u.Bio == nil &&
		u.ProfilePic == nil && u.Password == nil && u.GoogleID == nil
}

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	FirstName string `json:"firstName" form:"firstName" binding:"required"`
	LastName  string `json:"lastName" form:"lastName" binding:"required"`
	Email     string `json:"email" form:"email" binding:"required"`
	Password  string `json:"password" form:"password" binding:"required"`
}

// LoginRequest is the payload for password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleAuthRequest represents the payload for Google sign-in
type GoogleAuthRequest struct {
	GoogleIDToken string `json:"googleIdToken" binding:"required"`
}

// ChangePasswordRequest is the payload for rotating a password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// UpdateProfileRequest represents the payload for updating user profile
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Bio       *string `json:"bio"`
}

// ProfileResponse is the public profile with the author's blog count
type ProfileResponse struct {
	User      *User `json:"user"`
	BlogCount int64 `json:"blogCount"`
}

// AuthResponse is returned by login. The token only travels in the
// HttpOnly session cookie.
type AuthResponse struct {
	User      *User     `json:"user"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}
