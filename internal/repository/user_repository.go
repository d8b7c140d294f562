package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/guildofheroes/goh-api/internal/model"
)

const userCols = "id, username, email, display_name, role, avatar, bio, email_verified, created_at, updated_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.Role,
		&u.Avatar, &u.Bio, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and returns the persisted record. passwordHash
// is nil for magic-link-only accounts.
func (r *UserRepo) Create(ctx context.Context, username, email string, passwordHash *string, displayName, role string) (*model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, display_name, role) VALUES (?,?,?,?,?)",
		username, email, passwordHash, displayName, role)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, &DuplicateError{Field: duplicateUserField(me.Message)}
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// duplicateUserField maps a 1062 message like
// "Duplicate entry 'x' for key 'users.uq_users_email'" to the colliding
// column. Matches on the key name, not the entry value, since an email
// value can itself contain "username".
func duplicateUserField(msg string) string {
	switch {
	case strings.Contains(msg, "uq_users_username"):
		return "username"
	case strings.Contains(msg, "uq_users_email"):
		return "email"
	}
	return ""
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", username))
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", strings.ToLower(strings.TrimSpace(email))))
}

// PasswordHash fetches the stored hash separately from the profile row;
// it is never selected into model.User to keep hashes out of profile
// code paths. Returns (nil, nil) for accounts without a password.
func (r *UserRepo) PasswordHash(ctx context.Context, id int64) (*string, error) {
	var hash sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT password_hash FROM users WHERE id=? LIMIT 1", id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !hash.Valid {
		return nil, nil
	}
	return &hash.String, nil
}

func (r *UserRepo) VerifyEmail(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email_verified=1, updated_at=NOW() WHERE id=?", id)
	return err
}

// UpdateProfile applies only the provided fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, displayName, bio, avatar *string) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if displayName != nil {
		sets = append(sets, "display_name=?")
		args = append(args, *displayName)
	}
	if bio != nil {
		sets = append(sets, "bio=?")
		args = append(args, *bio)
	}
	if avatar != nil {
		sets = append(sets, "avatar=?")
		args = append(args, *avatar)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	return err
}

func (r *UserRepo) SetRole(ctx context.Context, id int64, role string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=NOW() WHERE id=?", role, id)
	return err
}

// Search matches username or display name by substring.
func (r *UserRepo) Search(ctx context.Context, query string, limit int) ([]model.User, error) {
	pattern := "%" + query + "%"
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username LIKE ? OR display_name LIKE ? ORDER BY username LIMIT ?",
		pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.Role,
			&u.Avatar, &u.Bio, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
