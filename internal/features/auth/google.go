package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleUser holds the claims we use from a Google ID token
type GoogleUser struct {
	UID           string
	Email         string
	GivenName     string
	FamilyName    string
	Picture       string
	EmailVerified bool
}

// GoogleVerifier checks a Google ID token
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleUser, error)
}

type idTokenVerifier struct {
	clientID string
}

// NewGoogleVerifier validates tokens against clientID using google.golang.org/api/idtoken
func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &idTokenVerifier{clientID: clientID}
}

func (v *idTokenVerifier) Verify(ctx context.Context, idToken string) (*GoogleUser, error) {
	payload, err := idtoken.Validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %v", err)
	}

	googleUser := &GoogleUser{
		UID: payload.Subject,
	}

	if email, ok := payload.Claims["email"].(string); ok {
		googleUser.Email = email
	}
	if name, ok := payload.Claims["given_name"].(string); ok {
		googleUser.GivenName = name
	}
	if name, ok := payload.Claims["family_name"].(string); ok {
		googleUser.FamilyName = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		googleUser.Picture = picture
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		googleUser.EmailVerified = verified
	}

	return googleUser, nil
}
