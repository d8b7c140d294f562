package model

import "time"

// Roles a user can hold. Role changes are restricted to admin actors at
// the handler layer.
const (
	RolePlayer = "player"
	RoleDM     = "dm"
	RoleAdmin  = "admin"
)

// User mirrors the `users` table. PasswordHash is nullable: magic-link
// only accounts never set one.
type User struct {
	ID            int64
	Username      string
	Email         string
	PasswordHash  *string
	DisplayName   string
	Role          string
	Avatar        *string
	Bio           string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicProfile is the shape exposed to any caller.
type PublicProfile struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Avatar      *string   `json:"avatar"`
	Bio         string    `json:"bio"`
	CreatedAt   time.Time `json:"created_at"`
}

// PrivateProfile adds the fields only the account owner may see.
type PrivateProfile struct {
	PublicProfile
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u User) Public() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Avatar:      u.Avatar,
		Bio:         u.Bio,
		CreatedAt:   u.CreatedAt,
	}
}

func (u User) Private() PrivateProfile {
	return PrivateProfile{
		PublicProfile: u.Public(),
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		UpdatedAt:     u.UpdatedAt,
	}
}
