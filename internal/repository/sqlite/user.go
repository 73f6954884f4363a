package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"study-log-backend/internal/models"
	"study-log-backend/internal/repository"
)

// UserDB stores users
type UserDB struct {
	conn *sql.DB
}

// Create inserts a new user
func (u *UserDB) Create(ctx context.Context, user *models.User) error {
	_, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Name, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlite: user %q: %w", user.Name, repository.ErrDuplicate)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (u *UserDB) GetByID(ctx context.Context, id string) (*models.User, error) {
	return u.getOne(ctx, `SELECT id, name, created_at, updated_at FROM users WHERE id = ?`, id)
}

// GetByName retrieves a user by exact name
func (u *UserDB) GetByName(ctx context.Context, name string) (*models.User, error) {
	return u.getOne(ctx, `SELECT id, name, created_at, updated_at FROM users WHERE name = ?`, name)
}

func (u *UserDB) getOne(ctx context.Context, query, arg string) (*models.User, error) {
	var user models.User
	err := u.conn.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sqlite: user %q: %w", arg, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	return &user, nil
}

// List retrieves all users, newest first
func (u *UserDB) List(ctx context.Context) ([]models.User, error) {
	rows, err := u.conn.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM users ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}
	return users, nil
}

// NameExists checks if a name is already registered
func (u *UserDB) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := u.conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE name = ?)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking name: %w", err)
	}
	return exists, nil
}
