package utils // package utils provides helpers for minting and reading session tokens

import (
	"errors"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"
)

// ErrInvalidSession is returned when a session token fails signature,
// expiry or claim checks.
var ErrInvalidSession = errors.New("invalid session token")

// SessionToken is a signed HS256 JWT naming an anonymous browser session.
// The subject claim carries the session id; Exp mirrors the exp claim.
type SessionToken struct {
	ID    string    // session id (random UUID)
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken mints a fresh session id and signs it.  The token lives
// for ttl; callers refresh it on every request so active sessions never
// expire mid-use.
func NewSessionToken(secret string, ttl time.Duration) (SessionToken, error) {
	return SignSession(secret, uuid.NewString(), ttl)
}

// SignSession signs an existing session id with a new expiry.
func SignSession(secret, id string, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{ID: id, Token: signed, Exp: exp}, nil
}

// ParseSession validates raw and returns the session id it carries.  Only
// HMAC-signed tokens are accepted and the subject must be a UUID.
func ParseSession(secret, raw string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		// Reject anything that is not HMAC so a forged "none" or RSA
		// header cannot bypass the secret.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidSession
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
