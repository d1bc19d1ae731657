package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-portal/internal/domain"
)

func signedToken(t *testing.T, claims *Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func seekerClaims(id int64) *Claims {
	return &Claims{
		UserID:   id,
		Role:     domain.RoleJobSeeker,
		Name:     "Alice Walker",
		Position: "backend",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestDecodeCredentialRoundTrip(t *testing.T) {
	token := signedToken(t, seekerClaims(42), "some-secret")

	claims, err := DecodeCredential(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleJobSeeker, claims.Role)
	assert.Equal(t, "Alice Walker", claims.Name)
	assert.Equal(t, "backend", claims.Position)
}

func TestDecodeCredentialIgnoresSignature(t *testing.T) {
	// The decoder extracts claims for routing only; a token signed with an
	// unknown secret still decodes.
	token := signedToken(t, seekerClaims(7), "not-the-server-secret")

	claims, err := DecodeCredential(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestDecodeCredentialMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"whitespace":        "   ",
		"not a token":       "definitely-not-a-jwt",
		"two segments":      "abc.def",
		"bad base64":        "a!b.c!d.e!f",
		"truncated payload": "eyJhbGciOiJIUzI1NiJ9.eyJp.sig",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCredential(token)
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}
}

func TestDecodeCredentialMissingRole(t *testing.T) {
	claims := &Claims{UserID: 9}
	token := signedToken(t, claims, "secret")

	_, err := DecodeCredential(token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyCredential(t *testing.T) {
	token := signedToken(t, seekerClaims(3), "server-secret")

	claims, err := VerifyCredential(token, "server-secret")
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)

	_, err = VerifyCredential(token, "wrong-secret")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyCredentialExpired(t *testing.T) {
	claims := seekerClaims(3)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signedToken(t, claims, "server-secret")

	_, err := VerifyCredential(token, "server-secret")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
