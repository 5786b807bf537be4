package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, email, password_hash, is_root,
	display_name, first_name, last_name, last_login_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		createdAt   string
		updatedAt   string
		passwordH   sql.NullString
		isRoot      int
		lastLoginAt string
	)

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&u.Email,
		&passwordH,
		&isRoot,
		&u.DisplayName,
		&u.FirstName,
		&u.LastName,
		&lastLoginAt,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	u.LastLoginAt, err = parseTime(lastLoginAt)
	if err != nil {
		return nil, err
	}

	if passwordH.Valid {
		u.PasswordHash = passwordH.String
	}
	u.IsRoot = isRoot != 0

	return &u, nil
}

// CreateUser inserts a new user.
// Returns store.ErrAlreadyExists when the email is already registered.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, created_at, updated_at, email, email_lower, password_hash,
			is_root, display_name, first_name, last_name, last_login_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		user.Email,
		strings.ToLower(user.Email),
		nullString(user.PasswordHash),
		boolToInt(user.IsRoot),
		user.DisplayName,
		user.FirstName,
		user.LastName,
		formatTime(user.LastLoginAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
// Returns store.ErrNotFound if no user has that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ?`, strings.ToLower(email))

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser writes the mutable user fields.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			updated_at = ?, email = ?, email_lower = ?, password_hash = ?,
			display_name = ?, first_name = ?, last_name = ?, last_login_at = ?
		WHERE id = ?`,
		formatTime(user.UpdatedAt),
		user.Email,
		strings.ToLower(user.Email),
		nullString(user.PasswordHash),
		user.DisplayName,
		user.FirstName,
		user.LastName,
		formatTime(user.LastLoginAt),
		user.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListUsers returns all users ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers returns the total number of users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
