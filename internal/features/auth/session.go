package auth

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/bloghunt/internal/pkg/jwt"
	"github.com/xyz-asif/bloghunt/internal/pkg/session"
)

// SessionManager issues, verifies and revokes session tokens
type SessionManager struct {
	tokens  *jwt.Manager
	revoker session.Revoker
}

func NewSessionManager(tokens *jwt.Manager, revoker session.Revoker) *SessionManager {
	if revoker == nil {
		revoker = session.NewMemoryRevoker()
	}
	return &SessionManager{tokens: tokens, revoker: revoker}
}

// Lifetime is how long a fresh session lasts
func (m *SessionManager) Lifetime() time.Duration {
	return m.tokens.Lifetime()
}

// Issue mints a token for userID
func (m *SessionManager) Issue(userID primitive.ObjectID) (string, time.Time, error) {
	token, claims, err := m.tokens.Issue(userID.Hex())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, claims.ExpiresAt.Time, nil
}

// Verify checks signature, expiry and the revocation list. An error means
// the revocation list could not be consulted.
func (m *SessionManager) Verify(ctx context.Context, token string) (jwt.Result, error) {
	res := m.tokens.Verify(token)
	if !res.Valid() {
		return res, nil
	}

	revoked, err := m.revoker.IsRevoked(ctx, res.TokenID)
	if err != nil {
		return jwt.Result{Status: jwt.StatusInvalid}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return jwt.Result{Status: jwt.StatusRevoked}, nil
	}
	return res, nil
}

// Revoke ends the session carried by token. Unusable tokens are ignored.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	res := m.tokens.Verify(token)
	if !res.Valid() || res.TokenID == "" {
		return nil
	}
	return m.revoker.Revoke(ctx, res.TokenID, res.ExpiresAt)
}
