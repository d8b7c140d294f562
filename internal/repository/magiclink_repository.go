package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/guildofheroes/goh-api/internal/model"
)

// MagicLinkRepo persists single-use passwordless login tokens.
type MagicLinkRepo struct{ DB *sql.DB }

func NewMagicLinkRepo(db *sql.DB) *MagicLinkRepo { return &MagicLinkRepo{DB: db} }

func (r *MagicLinkRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO magic_links (user_id, token, expires_at) VALUES (?,?,?)",
		userID, token, expiresAt)
	return err
}

// FindByToken returns the matching unused link; consumed links look the
// same as links that never existed.
func (r *MagicLinkRepo) FindByToken(ctx context.Context, token string) (*model.MagicLink, error) {
	var l model.MagicLink
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token, expires_at, used FROM magic_links WHERE token=? AND used=0 LIMIT 1",
		token).Scan(&l.ID, &l.UserID, &l.Token, &l.ExpiresAt, &l.Used)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *MagicLinkRepo) MarkUsed(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE magic_links SET used=1 WHERE token=?", token)
	return err
}
