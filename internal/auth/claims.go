// Package auth holds the client-side session machinery: credential decoding,
// role policy evaluation, the process-wide session store, and the route guard
// that composes them.
package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"job-portal/internal/domain"
)

// ErrInvalidCredential indicates a token that could not be decoded into claims.
var ErrInvalidCredential = errors.New("invalid credential")

// Claims are the fields carried by an issued credential.
type Claims struct {
	UserID int64       `json:"id"`
	Role   domain.Role `json:"role"`
	Name   string      `json:"name,omitempty"`
	// Position is the job seeker's desired position, used for job matching.
	Position string `json:"position,omitempty"`
	jwt.RegisteredClaims
}

// DecodeCredential extracts claims from a bearer token without verifying its
// signature. The issuer is the trust boundary; decoded claims steer UI routing
// only and must never gate protected data (the server verifies separately, see
// VerifyCredential).
func DecodeCredential(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidCredential
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrInvalidCredential
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidCredential
	}
	return claims, nil
}

// VerifyCredential parses a token and checks its HS256 signature and expiry.
// This is the server-side counterpart of DecodeCredential.
func VerifyCredential(token, secret string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredential
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredential
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidCredential
	}
	return claims, nil
}
