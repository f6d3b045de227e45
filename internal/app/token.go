package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any session token that cannot be trusted,
// whether forged, malformed or expired.
var ErrInvalidToken = errors.New("invalid session token")

// ErrUnalignedExpiry is returned by Issue for an expiry with a sub-second part.
var ErrUnalignedExpiry = errors.New("token expiry must be a whole second")

// minKeyLen is the shortest accepted HMAC key.
const minKeyLen = 32

// TokenCodec issues and verifies signed session tokens (HS256 JWTs) whose
// subject is a user id. It holds no per-token state.
type TokenCodec struct {
	key []byte
	now func() time.Time
}

// NewTokenCodec returns a codec signing with key.
func NewTokenCodec(key []byte) (*TokenCodec, error) {
	if len(key) < minKeyLen {
		return nil, fmt.Errorf("session key must be at least %d bytes", minKeyLen)
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &TokenCodec{key: k, now: time.Now}, nil
}

// Issue returns a token for userID that expires at expiry. The exp claim
// only carries whole seconds, so expiry must be second-aligned.
func (c *TokenCodec) Issue(userID string, expiry time.Time) (string, error) {
	if userID == "" {
		return "", errors.New("empty subject")
	}
	if expiry.Nanosecond() != 0 {
		return "", ErrUnalignedExpiry
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(c.now()),
		ExpiresAt: jwt.NewNumericDate(expiry),
	})
	return token.SignedString(c.key)
}

// Verify returns the user id carried by token. Every failure is reported as
// ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
