package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yapjournal/yap/internal/models"
	"github.com/yapjournal/yap/internal/shared"
)

// UserRepository persists [models.User] rows.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a [UserRepository] with the given database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user with a store-assigned id and created_at set to now.
func (r *UserRepository) Create() (*models.User, error) {
	now := time.Now().UTC()

	result, err := r.db.Exec("INSERT INTO users (created_at) VALUES (?)", now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read assigned user id: %w", err)
	}

	return &models.User{ID: id, CreatedAt: now}, nil
}

// Get retrieves a user by id, returning [shared.ErrUserNotFound] when absent.
func (r *UserRepository) Get(id int64) (*models.User, error) {
	var user models.User

	err := r.db.QueryRow("SELECT id, created_at FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// First returns the earliest-created user, or [shared.ErrUserNotFound] when
// the table is empty.
func (r *UserRepository) First() (*models.User, error) {
	var user models.User

	err := r.db.QueryRow("SELECT id, created_at FROM users ORDER BY id ASC LIMIT 1").
		Scan(&user.ID, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query first user: %w", err)
	}

	return &user, nil
}

// GetOrCreateDefault returns the first user if one exists and creates it
// otherwise. Idempotent after the first call; this is the single-tenant
// bootstrap, no registration required.
func (r *UserRepository) GetOrCreateDefault() (*models.User, error) {
	user, err := r.First()
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, shared.ErrUserNotFound) {
		return nil, err
	}

	return r.Create()
}
