package auth

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/xyz-asif/bloghunt/internal/pkg/logger"
	"github.com/xyz-asif/bloghunt/internal/pkg/media"
	"github.com/xyz-asif/bloghunt/internal/pkg/metrics"
	apperrors "github.com/xyz-asif/bloghunt/pkg/errors"
)

// BlogCounter reports how many blogs an author has written
type BlogCounter interface {
	CountByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error)
}

// dummyHash is compared against when the email is unknown so that both
// login failures cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bloghunt-dummy-password"), bcrypt.DefaultCost)

type Service struct {
	store    Store
	sessions *SessionManager
	uploader media.Uploader
	blogs    BlogCounter
	google   GoogleVerifier
}

func NewService(store Store, sessions *SessionManager, uploader media.Uploader, blogs BlogCounter, google GoogleVerifier) *Service {
	if uploader == nil {
		uploader = media.Disabled{}
	}
	return &Service{
		store:    store,
		sessions: sessions,
		uploader: uploader,
		blogs:    blogs,
		google:   google,
	}
}

// Sessions exposes the session manager for the middleware and logout
func (s *Service) Sessions() *SessionManager { return s.sessions }

// Register creates a user. The avatar, when given, is uploaded first so a
// failed upload leaves nothing behind.
func (s *Service) Register(ctx context.Context, req RegisterRequest, avatar *media.File) (*User, error) {
	if err := ValidateRegister(&req); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Internal("Failed to register user", err)
	}
	if existing != nil {
		metrics.AuthEvents.WithLabelValues("register", "conflict").Inc()
		return nil, ErrEmailTaken
	}

	var profilePic string
	if avatar != nil {
		profilePic, err = s.uploader.Upload(ctx, avatar.Reader, avatar.Filename, media.FolderProfilePics)
		if err != nil {
			return nil, apperrors.Internal("Failed to upload profile picture", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to process password", err)
	}

	user := &User{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   string(hash),
		ProfilePic: profilePic,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			metrics.AuthEvents.WithLabelValues("register", "conflict").Inc()
			return nil, err
		}
		return nil, apperrors.Internal("Failed to register user", err)
	}

	metrics.AuthEvents.WithLabelValues("register", "ok").Inc()
	logger.With("userId", user.ID.Hex()).Info("user registered")
	return user, nil
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = NormalizeEmail(email)

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Internal("Failed to log in", err)
	}

	hash := dummyHash
	if user != nil && user.Password != "" {
		hash = []byte(user.Password)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil || user == nil || user.Password == "" {
		metrics.AuthEvents.WithLabelValues("login", "rejected").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.startSession(user, "login")
}

func (s *Service) startSession(user *User, event string) (*AuthResponse, error) {
	token, expiresAt, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	metrics.AuthEvents.WithLabelValues(event, "ok").Inc()
	return &AuthResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// GoogleLogin signs in with a Google ID token, linking or creating the account
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (*AuthResponse, error) {
	if s.google == nil {
		return nil, apperrors.NotFound("Google sign-in is not enabled")
	}

	gu, err := s.google.Verify(ctx, idToken)
	if err != nil {
		metrics.AuthEvents.WithLabelValues("google", "rejected").Inc()
		return nil, apperrors.Unauthenticated("Invalid Google token")
	}
	if gu.Email == "" || !gu.EmailVerified {
		return nil, apperrors.Unauthenticated("Google account email is not verified")
	}

	user, err := s.store.FindByGoogleID(ctx, gu.UID)
	if err != nil {
		return nil, apperrors.Internal("Failed to log in", err)
	}
	if user != nil {
		return s.startSession(user, "google")
	}

	email := NormalizeEmail(gu.Email)
	user, err = s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Internal("Failed to log in", err)
	}
	if user != nil {
		user, err = s.store.Update(ctx, user.ID, UserUpdate{GoogleID: &gu.UID})
		if err != nil {
			return nil, apperrors.Internal("Failed to link Google account", err)
		}
		return s.startSession(user, "google")
	}

	user = &User{
		FirstName:  fallback(gu.GivenName, strings.Split(email, "@")[0]),
		LastName:   gu.FamilyName,
		Email:      email,
		GoogleID:   gu.UID,
		ProfilePic: gu.Picture,
	}
	if err := s.store.Create(ctx, user); err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to register user", err)
	}
	return s.startSession(user, "google")
}

// Logout revokes token if it is still usable. It never fails the request
// because of a bad token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return apperrors.Internal("Failed to log out", err)
	}
	metrics.AuthEvents.WithLabelValues("logout", "ok").Inc()
	return nil
}

// GetUser loads a user or returns NotFound
func (s *Service) GetUser(ctx context.Context, id primitive.ObjectID) (*User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to load user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetProfile returns the public profile of a user with their blog count
func (s *Service) GetProfile(ctx context.Context, id primitive.ObjectID) (*ProfileResponse, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	var count int64
	if s.blogs != nil {
		count, err = s.blogs.CountByAuthor(ctx, id)
		if err != nil {
			return nil, apperrors.Internal("Failed to count blogs", err)
		}
	}

	return &ProfileResponse{User: user, BlogCount: count}, nil
}

// ChangePassword replaces the password after checking the old one
func (s *Service) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return apperrors.ErrInvalidCredentials
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Failed to process password", err)
	}
	hashed := string(hash)

	if _, err := s.store.Update(ctx, userID, UserUpdate{Password: &hashed}); err != nil {
		return wrapStoreErr(err, "Failed to change password")
	}
	return nil
}

// UpdateProfile overwrites the provided subset of profile fields
func (s *Service) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req UpdateProfileRequest) (*User, error) {
	if err := ValidateUpdateProfile(&req); err != nil {
		return nil, err
	}

	update := UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}

	if req.Email != nil {
		other, err := s.store.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, apperrors.Internal("Failed to update profile", err)
		}
		if other != nil && other.ID != userID {
			return nil, apperrors.Conflict("Email already in use")
		}
		update.Email = req.Email
	}

	if update.empty() {
		return s.GetUser(ctx, userID)
	}

	user, err := s.store.Update(ctx, userID, update)
	if err != nil {
		return nil, wrapStoreErr(err, "Failed to update profile")
	}
	return user, nil
}

// SetProfilePicture uploads file and stores its URL on the user
func (s *Service) SetProfilePicture(ctx context.Context, userID primitive.ObjectID, file media.File) (*User, error) {
	url, err := s.uploader.Upload(ctx, file.Reader, file.Filename, media.FolderProfilePics)
	if err != nil {
		return nil, apperrors.Internal("Failed to update profile picture", err)
	}

	user, err := s.store.Update(ctx, userID, UserUpdate{ProfilePic: &url})
	if err != nil {
		return nil, wrapStoreErr(err, "Failed to update profile picture")
	}
	return user, nil
}

// wrapStoreErr keeps typed store errors and hides the rest behind msg
func wrapStoreErr(err error, msg string) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindInternal:
		return apperrors.Internal(msg, err)
	default:
		return err
	}
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// tokenTTL is used by handlers for the cookie Max-Age
func (s *Service) tokenTTL(expiresAt time.Time) time.Duration {
	if ttl := time.Until(expiresAt); ttl > 0 {
		return ttl
	}
	return s.sessions.Lifetime()
}
