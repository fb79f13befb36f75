package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/bloghunt/internal/pkg/jwt"
	"github.com/xyz-asif/bloghunt/internal/pkg/response"
	apperrors "github.com/xyz-asif/bloghunt/pkg/errors"
)

// Context keys set by the auth middleware
const (
	ContextUser   = "user"
	ContextUserID = "userID"
)

// TokenFromRequest reads the session cookie, then a Bearer header
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}

	fields := strings.Fields(c.GetHeader("Authorization"))
	if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return fields[1]
	}
	return ""
}

// CurrentUser returns the authenticated user stored by the middleware
func CurrentUser(c *gin.Context) (*User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*User)
	return user, ok && user != nil
}

// NewAuthMiddleware rejects requests without a valid session with 401
func NewAuthMiddleware(svc *Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c, cookieName)
		if token == "" {
			response.Unauthorized(c, "Not authorized, no token", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		res, err := svc.Sessions().Verify(c.Request.Context(), token)
		if err != nil {
			response.FromError(c, apperrors.Internal("Failed to verify session", err))
			c.Abort()
			return
		}

		switch res.Status {
		case jwt.StatusValid:
		case jwt.StatusExpired:
			response.Unauthorized(c, "Session expired, please log in again", "TOKEN_EXPIRED")
			c.Abort()
			return
		case jwt.StatusRevoked:
			response.Unauthorized(c, "Session has been logged out", "TOKEN_REVOKED")
			c.Abort()
			return
		default:
			response.Unauthorized(c, "Invalid token", "INVALID_TOKEN")
			c.Abort()
			return
		}

		user, err := loadUser(c, svc, res.UserID)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				response.Unauthorized(c, "User not found", "USER_NOT_FOUND")
			} else {
				response.FromError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID.Hex())
		c.Next()
	}
}

func loadUser(c *gin.Context, svc *Service, hexID string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return svc.GetUser(c.Request.Context(), oid)
}
