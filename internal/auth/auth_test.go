package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-0123456789")

func TestHashPassword(t *testing.T) {
	_, err := HashPassword("short", 4)
	require.ErrorIs(t, err, ErrPasswordTooShort)

	h, err := HashPassword("longenough", 4)
	require.NoError(t, err)
	assert.True(t, IsHashed(h))
	assert.False(t, IsHashed("longenough"))
	assert.True(t, CheckPassword("longenough", h))
	assert.False(t, CheckPassword("longenougH", h))

	h2, err := HashPassword("longenough", 4)
	require.NoError(t, err)
	assert.NotEqual(t, h, h2, "hashes must be salted")
}

func TestSessionRoundTrip(t *testing.T) {
	iss := NewIssuer(secret, time.Hour, time.Minute)
	uid := uuid.New()

	tok, err := iss.IssueSession(uid, "employer")
	require.NoError(t, err)

	claims, err := iss.Verify(tok, PurposeSession)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uid, got)
	assert.Equal(t, "employer", claims.Role)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestVerifyRejectsExpired(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	iss := NewIssuer(secret, 7*24*time.Hour, time.Hour).WithClock(func() time.Time { return start })

	tok, err := iss.IssueSession(uuid.New(), "student")
	require.NoError(t, err)

	later := iss.WithClock(func() time.Time { return start.Add(8 * 24 * time.Hour) })
	_, err = later.Verify(tok, PurposeSession)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.WithClock(func() time.Time { return start.Add(6 * 24 * time.Hour) }).Verify(tok, PurposeSession)
	require.NoError(t, err)
}

func TestVerifyRejectsWrongPurpose(t *testing.T) {
	iss := NewIssuer(secret, time.Hour, time.Hour)
	uid := uuid.New()

	reset, err := iss.IssueReset(uid)
	require.NoError(t, err)
	_, err = iss.Verify(reset, PurposeSession)
	require.ErrorIs(t, err, ErrInvalidToken)

	session, err := iss.IssueSession(uid, "student")
	require.NoError(t, err)
	_, err = iss.Verify(session, PurposePasswordReset)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Verify(reset, PurposePasswordReset)
	require.NoError(t, err)
}

func TestVerifyRejectsTampering(t *testing.T) {
	iss := NewIssuer(secret, time.Hour, time.Hour)
	tok, err := iss.IssueSession(uuid.New(), "student")
	require.NoError(t, err)

	other := NewIssuer([]byte("another-secret-0123456789"), time.Hour, time.Hour)
	_, err = other.Verify(tok, PurposeSession)
	require.ErrorIs(t, err, ErrInvalidToken)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	_, err = iss.Verify(parts[0]+"."+parts[1]+".AAAA", PurposeSession)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Verify("not-a-token", PurposeSession)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	iss := NewIssuer(secret, time.Hour, time.Hour)
	claims := Claims{
		Purpose: PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = iss.Verify(tok, PurposeSession)
	require.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = iss.Verify(none, PurposeSession)
	require.ErrorIs(t, err, ErrInvalidToken)
}
