// Package auth issues and checks the operator's session tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionLifetime is how long a login stays valid.
const SessionLifetime = 12 * time.Hour

// Subject identifies the single operator in issued tokens.
const Subject = "operator"

// ErrInvalidSession is returned for tokens that are malformed, expired or
// signed with another secret.
var ErrInvalidSession = errors.New("invalid session")

// Session is the parsed content of a session token.
type Session struct {
	ID        string
	ExpiresAt time.Time
}

// IssueSession signs a new session token with a fresh random ID.
func IssueSession(secret string, now time.Time) (string, *Session, error) {
	id, err := newSessionID()
	if err != nil {
		return "", nil, fmt.Errorf("generating session id: %w", err)
	}

	s := &Session{ID: id, ExpiresAt: now.Add(SessionLifetime)}
	claims := jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("signing session: %w", err)
	}
	return signed, s, nil
}

// ParseSession verifies a session token and returns its ID and expiry.
func ParseSession(secret, token string) (*Session, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(Subject),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidSession)
	}

	return &Session{ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
