package model

import "time"

// Session models a row in the `sessions` table: one active login,
// identified by its opaque refresh token. A session is usable only while
// Revoked is false and ExpiresAt is in the future; rotation revokes the
// old row the moment a replacement is issued.
type Session struct {
	ID           int64
	UserID       int64
	RefreshToken string
	ExpiresAt    time.Time
	Revoked      bool
	UserAgent    *string
	IPAddress    *string
	CreatedAt    time.Time
}

// MagicLink models a row in the `magic_links` table: a single-use,
// time-boxed passwordless credential. Verification marks it used in the
// same flow that issues the session so a captured link cannot replay.
type MagicLink struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	Used      bool
}
