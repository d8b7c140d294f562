package service

import (
	"context"
	"errors"
	"time"

	"github.com/guildofheroes/goh-api/internal/apperr"
	"github.com/guildofheroes/goh-api/internal/auth"
	"github.com/guildofheroes/goh-api/internal/model"
	"github.com/guildofheroes/goh-api/internal/repository"
)

// SessionManager owns the refresh-session lifecycle: creation, single-use
// rotation and revocation. Rotation is the anti-replay mechanism — a
// leaked refresh token works at most once, and the legitimate client's
// next refresh failing is the theft signal.
type SessionManager struct {
	Sessions SessionStore
}

func NewSessionManager(sessions SessionStore) *SessionManager {
	return &SessionManager{Sessions: sessions}
}

// Start issues a fresh opaque refresh token and persists the session.
func (m *SessionManager) Start(ctx context.Context, user *model.User, ttlDays int, userAgent, ipAddress *string) (auth.RefreshToken, error) {
	refresh, err := auth.NewRefreshToken(ttlDays)
	if err != nil {
		return auth.RefreshToken{}, err
	}
	if _, err := m.Sessions.Create(ctx, user.ID, refresh.Raw, refresh.Exp, userAgent, ipAddress); err != nil {
		return auth.RefreshToken{}, err
	}
	return refresh, nil
}

// Rotate consumes oldToken and returns its replacement session. A token
// that never existed or was already rotated out fails as invalid; a
// known-but-stale one fails as expired, so clients can tell "re-login"
// from "this credential was never yours".
func (m *SessionManager) Rotate(ctx context.Context, oldToken string, ttlDays int) (*model.Session, error) {
	sess, err := m.Sessions.FindByRefreshToken(ctx, oldToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.InvalidToken()
		}
		return nil, err
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		return nil, apperr.Expired()
	}

	// Revoke first: the instant a replacement exists, the old token must
	// already be dead.
	if err := m.Sessions.Revoke(ctx, oldToken); err != nil {
		return nil, err
	}
	refresh, err := auth.NewRefreshToken(ttlDays)
	if err != nil {
		return nil, err
	}
	return m.Sessions.Create(ctx, sess.UserID, refresh.Raw, refresh.Exp, sess.UserAgent, sess.IPAddress)
}

// Revoke terminates one session. Idempotent: revoking an unknown or
// already-revoked token succeeds silently, so logout never fails on
// double invocation.
func (m *SessionManager) Revoke(ctx context.Context, refreshToken string) error {
	return m.Sessions.Revoke(ctx, refreshToken)
}

// RevokeAll terminates every session for a user (account-wide logout,
// e.g. after a password change).
func (m *SessionManager) RevokeAll(ctx context.Context, userID int64) error {
	return m.Sessions.RevokeAllForUser(ctx, userID)
}
