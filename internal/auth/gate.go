package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/almoxarifado/internal/model"
	"github.com/erazemk/almoxarifado/internal/store"
)

// ErrWrongPassword is returned by Login for a password that does not match.
var ErrWrongPassword = errors.New("wrong password")

// Gate checks the operator password and the sessions issued for it. A nil
// *Gate means login is not required.
type Gate struct {
	db     *sql.DB
	secret string
	now    func() time.Time
}

// NewGate loads the session secret for db, creating it on first use.
func NewGate(ctx context.Context, db *sql.DB) (*Gate, error) {
	secret, err := store.GetSessionSecret(ctx, db)
	if err != nil {
		return nil, err
	}
	return &Gate{db: db, secret: secret, now: time.Now}, nil
}

// Login checks password against the stored operator hash and issues a
// session token.
func (g *Gate) Login(ctx context.Context, password string) (string, *Session, error) {
	hash, err := store.OperatorPasswordHash(ctx, g.db)
	if err != nil {
		return "", nil, err
	}
	if !CheckPassword(hash, password) {
		return "", nil, ErrWrongPassword
	}
	return IssueSession(g.secret, g.now())
}

// Verify parses a session token and rejects it once revoked.
func (g *Gate) Verify(ctx context.Context, token string) (*Session, error) {
	s, err := ParseSession(g.secret, token)
	if err != nil {
		return nil, err
	}
	revoked, err := store.IsSessionRevoked(ctx, g.db, s.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: revoked", ErrInvalidSession)
	}
	return s, nil
}

// Logout revokes the session carried by token. Invalid tokens are ignored.
func (g *Gate) Logout(ctx context.Context, token string) error {
	s, err := ParseSession(g.secret, token)
	if err != nil {
		return nil
	}
	return store.RevokeSession(ctx, g.db, s.ID, s.ExpiresAt)
}

// EnsurePassword makes sure an operator password exists. When one had to be
// generated it is returned so the caller can show it once; otherwise the
// result is empty.
func EnsurePassword(ctx context.Context, db *sql.DB) (string, error) {
	hash, err := store.OperatorPasswordHash(ctx, db)
	if err != nil {
		return "", err
	}
	if hash != "" {
		return "", nil
	}
	return ResetPassword(ctx, db)
}

// ResetPassword replaces the operator password with a generated one and
// returns it.
func ResetPassword(ctx context.Context, db *sql.DB) (string, error) {
	password, err := GeneratePassword()
	if err != nil {
		return "", err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	if err := store.SetOperatorPasswordHash(ctx, db, hash); err != nil {
		return "", err
	}
	return password, nil
}

// ChangePassword replaces the operator password after checking the current
// one.
func (g *Gate) ChangePassword(ctx context.Context, current, next string) error {
	hash, err := store.OperatorPasswordHash(ctx, g.db)
	if err != nil {
		return err
	}
	if !CheckPassword(hash, current) {
		return ErrWrongPassword
	}
	if err := model.ValidatePassword(next); err != nil {
		return err
	}
	newHash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return store.SetOperatorPasswordHash(ctx, g.db, newHash)
}
