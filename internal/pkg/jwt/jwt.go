package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents JWT claims. The user id travels as "id".
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Config represents JWT configuration
type Config struct {
	Secret        string
	AccessExpiry  time.Duration
	Issuer        string
	SigningMethod jwt.SigningMethod
}

// DefaultConfig returns default JWT configuration
func DefaultConfig(secret string) *Config {
	return &Config{
		Secret:        secret,
		AccessExpiry:  24 * time.Hour,
		Issuer:        "bloghunt-api",
		SigningMethod: jwt.SigningMethodHS256,
	}
}

// Status is the outcome of verifying a token.
type Status int

const (
	StatusInvalid Status = iota
	StatusValid
	StatusExpired
	StatusRevoked
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	case StatusRevoked:
		return "revoked"
	default:
		return "invalid"
	}
}

// Result carries the identity of a verified token. Only StatusValid results
// have meaningful UserID, TokenID and ExpiresAt.
type Result struct {
	Status    Status
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// Valid reports whether the token may be used.
func (r Result) Valid() bool { return r.Status == StatusValid }

// Manager issues and verifies session tokens.
type Manager struct {
	cfg *Config
	now func() time.Time
}

func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil || cfg.Secret == "" {
		return nil, errors.New("JWT secret is required")
	}
	if cfg.SigningMethod == nil {
		cfg.SigningMethod = jwt.SigningMethodHS256
	}
	if cfg.AccessExpiry <= 0 {
		cfg.AccessExpiry = 24 * time.Hour
	}
	return &Manager{cfg: cfg, now: time.Now}, nil
}

// Lifetime is how long issued tokens stay valid.
func (m *Manager) Lifetime() time.Duration { return m.cfg.AccessExpiry }

// Issue signs a new token for userID.
func (m *Manager) Issue(userID string) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.AccessExpiry)),
		},
	}

	token := jwt.NewWithClaims(m.cfg.SigningMethod, claims)
	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify checks signature and expiry. It never consults storage.
func (m *Manager) Verify(tokenString string) Result {
	if tokenString == "" {
		return Result{Status: StatusInvalid}
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Result{Status: StatusExpired}
		}
		return Result{Status: StatusInvalid}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" || claims.ExpiresAt == nil {
		return Result{Status: StatusInvalid}
	}

	return Result{
		Status:    StatusValid,
		UserID:    claims.UserID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}
