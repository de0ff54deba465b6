// Package session provides the explicit session value passed through
// the application instead of ambient login state. A session is
// established once at app start and torn down by discarding the value.
package session

import (
	goerrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studyhub-app/backend/internal/errors"
)

// Session is the value handed to clients after Establish.
type Session struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims carries the user id inside the signed token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// Manager issues and verifies session tokens (HS256).
type Manager struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewManager creates a session manager. validity bounds the token
// lifetime; a zero value defaults to 24 hours.
func NewManager(secret []byte, validity time.Duration) *Manager {
	if validity <= 0 {
		validity = 24 * time.Hour
	}
	return &Manager{
		secret:   secret,
		validity: validity,
		now:      time.Now,
	}
}

// Establish creates a session for userID.
func (m *Manager) Establish(userID string) (*Session, error) {
	if userID == "" {
		return nil, errors.New(errors.ErrValidation, "userId is required")
	}

	issued := m.now()
	expires := issued.Add(m.validity)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to sign session token", err)
	}

	return &Session{
		UserID:    userID,
		Token:     signed,
		IssuedAt:  issued,
		ExpiresAt: expires,
	}, nil
}

// Verify checks a token and returns the user id it was issued for.
func (m *Manager) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.Wrap(errors.ErrSessionExpired, "session expired", err)
		}
		return "", errors.Wrap(errors.ErrSessionInvalid, "invalid session token", err)
	}
	if !token.Valid {
		return "", errors.New(errors.ErrSessionInvalid, "invalid session token")
	}

	return claims.UserID, nil
}
