package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. A token is only accepted for the purpose it was issued for.
const (
	PurposeSession       = "session"
	PurposePasswordReset = "password_reset"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the JWT claims carried by every token the service issues.
type Claims struct {
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

func NewIssuer(secret []byte, sessionTTL, resetTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, sessionTTL: sessionTTL, resetTTL: resetTTL, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

// IssueSession signs a session token for the user.
func (i *Issuer) IssueSession(userID uuid.UUID, role string) (string, error) {
	return i.sign(userID, role, PurposeSession, i.sessionTTL)
}

// IssueReset signs a short-lived token that only authorises a password reset.
func (i *Issuer) IssueReset(userID uuid.UUID) (string, error) {
	return i.sign(userID, "", PurposePasswordReset, i.resetTTL)
}

func (i *Issuer) sign(userID uuid.UUID, role, purpose string, ttl time.Duration) (string, error) {
	at := i.now()
	claims := Claims{
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(at),
			ExpiresAt: jwt.NewNumericDate(at.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Verify parses tokenStr and checks signature, expiry and purpose. Any failure yields ErrInvalidToken.
func (i *Issuer) Verify(tokenStr, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
