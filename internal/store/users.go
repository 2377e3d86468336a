package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// User is a principal: an authenticated account with a role.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is the 1:1 personal-details record attached to a User.
type Profile struct {
	ID          string  `db:"id"`
	UserID      string  `db:"user_id"`
	FullName    string  `db:"full_name"`
	Location    *string `db:"location"`
	ContactInfo *string `db:"contact_info"`
	Avatar      *string `db:"avatar"`
}

// UserWithProfile is a user row joined with its profile, used by list endpoints.
type UserWithProfile struct {
	User
	FullName    string  `db:"full_name"`
	Location    *string `db:"location"`
	ContactInfo *string `db:"contact_info"`
	Avatar      *string `db:"avatar"`
}

// UserFilter narrows and pages a user listing.
type UserFilter struct {
	Role   string // empty means any role
	Search string // case-insensitive substring of email or full name
	Page   int
	Limit  int
}

// UpdateUserParams carries the mutable fields of a user and its profile.
// Nil pointers leave the current value unchanged.
type UpdateUserParams struct {
	Email       *string
	Role        *string
	FullName    *string
	Location    *string
	ContactInfo *string
	Avatar      *string
}

// UserCounts summarizes principals by role.
type UserCounts struct {
	Total   int `db:"total"`
	Admins  int `db:"admins"`
	Farmers int `db:"farmers"`
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a user and its profile in a single transaction.
// Returns ErrEmailTaken if the email is already registered.
func (s *UserStore) Create(ctx context.Context, email, passwordHash, role, fullName string, location, contactInfo *string) (*User, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), id, email, passwordHash, role, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO profiles (id, user_id, full_name, location, contact_info)
		VALUES (?, ?, ?, ?, ?)
	`), uuid.New().String(), id, fullName, location, contactInfo)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the user matching email, or ErrNotFound. The returned
// record includes the password hash; it is used by the login handler only.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE email = ?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := s.db.GetContext(ctx, &p, s.q(`SELECT * FROM profiles WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns a page of users joined with their profiles, plus the total
// number of rows matching the filter.
func (s *UserStore) List(ctx context.Context, f UserFilter) ([]*UserWithProfile, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if f.Role != "" {
		where = append(where, "u.role = ?")
		args = append(args, f.Role)
	}
	if f.Search != "" {
		where = append(where, "(LOWER(u.email) LIKE ? OR LOWER(p.full_name) LIKE ?)")
		pattern := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, pattern, pattern)
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQ := fmt.Sprintf(`
		SELECT COUNT(*) FROM users u
		INNER JOIN profiles p ON p.user_id = u.id
		WHERE %s`, cond)
	if err := s.db.GetContext(ctx, &total, s.q(countQ), args...); err != nil {
		return nil, 0, err
	}

	listQ := fmt.Sprintf(`
		SELECT u.*, p.full_name, p.location, p.contact_info, p.avatar
		FROM users u
		INNER JOIN profiles p ON p.user_id = u.id
		WHERE %s
		ORDER BY u.created_at DESC, u.id
		LIMIT ? OFFSET ?`, cond)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	var users []*UserWithProfile
	if err := s.db.SelectContext(ctx, &users, s.q(listQ), args...); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update applies the non-nil fields of p to the user and its profile in one
// transaction. Changing email to one already in use returns ErrEmailTaken.
func (s *UserStore) Update(ctx context.Context, id string, p UpdateUserParams) (*User, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	userChanged := p.Email != nil || p.Role != nil
	profileChanged := p.FullName != nil || p.Location != nil || p.ContactInfo != nil || p.Avatar != nil

	if userChanged {
		set := []string{"updated_at = ?"}
		args := []any{now}
		if p.Email != nil {
			set = append(set, "email = ?")
			args = append(args, *p.Email)
		}
		if p.Role != nil {
			set = append(set, "role = ?")
			args = append(args, *p.Role)
		}
		args = append(args, id)
		_, err = tx.ExecContext(ctx, s.q(fmt.Sprintf(`UPDATE users SET %s WHERE id = ?`, strings.Join(set, ", "))), args...)
		if err != nil {
			if isUniqueConstraintError(err) {
				return nil, ErrEmailTaken
			}
			return nil, err
		}
	}

	if profileChanged {
		set := []string{}
		args := []any{}
		if p.FullName != nil {
			set = append(set, "full_name = ?")
			args = append(args, *p.FullName)
		}
		if p.Location != nil {
			set = append(set, "location = ?")
			args = append(args, *p.Location)
		}
		if p.ContactInfo != nil {
			set = append(set, "contact_info = ?")
			args = append(args, *p.ContactInfo)
		}
		if p.Avatar != nil {
			set = append(set, "avatar = ?")
			args = append(args, *p.Avatar)
		}
		args = append(args, id)
		_, err = tx.ExecContext(ctx, s.q(fmt.Sprintf(`UPDATE profiles SET %s WHERE user_id = ?`, strings.Join(set, ", "))), args...)
		if err != nil {
			return nil, err
		}
	}

	// A profile-only change still counts as modifying the principal.
	if profileChanged && !userChanged {
		_, err = tx.ExecContext(ctx, s.q(`UPDATE users SET updated_at = ? WHERE id = ?`), now, id)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes the user, its profile, and all owned crops in one
// transaction. The explicit deletes keep the cascade portable across drivers
// regardless of foreign-key enforcement settings.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM crops WHERE farmer_id = ?`), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM profiles WHERE user_id = ?`), id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Counts returns principal totals by role.
func (s *UserStore) Counts(ctx context.Context) (*UserCounts, error) {
	var c UserCounts
	err := s.db.GetContext(ctx, &c, `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN role = 'ADMIN' THEN 1 ELSE 0 END), 0) AS admins,
		       COALESCE(SUM(CASE WHEN role = 'FARMER' THEN 1 ELSE 0 END), 0) AS farmers
		FROM users`)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountCreatedBetween returns how many users were created in [from, to).
func (s *UserStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM users WHERE created_at >= ? AND created_at < ?`), from, to)
	return n, err
}

// Recent returns the n most recently registered users with profiles.
func (s *UserStore) Recent(ctx context.Context, n int) ([]*UserWithProfile, error) {
	var users []*UserWithProfile
	err := s.db.SelectContext(ctx, &users, s.q(`
		SELECT u.*, p.full_name, p.location, p.contact_info, p.avatar
		FROM users u
		INNER JOIN profiles p ON p.user_id = u.id
		ORDER BY u.created_at DESC, u.id
		LIMIT ?`), n)
	if err != nil {
		return nil, err
	}
	return users, nil
}
