package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/guildofheroes/goh-api/internal/model"
)

// SessionRepo persists refresh-token sessions.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row for a fresh login or rotation.
func (r *SessionRepo) Create(ctx context.Context, userID int64, refreshToken string, expiresAt time.Time, userAgent, ipAddress *string) (*model.Session, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, refresh_token, expires_at, user_agent, ip_address) VALUES (?,?,?,?,?)",
		userID, refreshToken, expiresAt, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Session{
		ID:           id,
		UserID:       userID,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
	}, nil
}

// FindByRefreshToken returns the matching non-revoked session. Revoked
// rows are indistinguishable from missing ones by design: a rotated-out
// token must look invalid, not expired.
func (r *SessionRepo) FindByRefreshToken(ctx context.Context, refreshToken string) (*model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, refresh_token, expires_at, revoked, user_agent, ip_address, created_at FROM sessions WHERE refresh_token=? AND revoked=0 LIMIT 1",
		refreshToken).Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.ExpiresAt, &s.Revoked, &s.UserAgent, &s.IPAddress, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Revoke marks a session revoked. Unknown or already-revoked tokens are
// a no-op so logout stays idempotent.
func (r *SessionRepo) Revoke(ctx context.Context, refreshToken string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked=1 WHERE refresh_token=?", refreshToken)
	return err
}

// RevokeAllForUser terminates every session a user holds.
func (r *SessionRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked=1 WHERE user_id=? AND revoked=0", userID)
	return err
}
