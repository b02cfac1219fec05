package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cuongbtq/invoice-service/internal/domain"
	"github.com/cuongbtq/invoice-service/shared/postgresql"
)

// UserStore looks up user profiles in the directory store
type UserStore interface {
	FetchUser(ctx context.Context, userID int) (*domain.UserRecord, error)
}

// PostgresUserStore reads user rows through the shared connection pool
type PostgresUserStore struct {
	db *sqlx.DB
}

// NewPostgresUserStore creates a user store backed by the shared PostgreSQL client
func NewPostgresUserStore(client *postgresql.Client) *PostgresUserStore {
	return &PostgresUserStore{db: client.GetDB()}
}

// FetchUser returns the user row for the given ID, or domain.ErrUserNotFound
func (s *PostgresUserStore) FetchUser(ctx context.Context, userID int) (*domain.UserRecord, error) {
	query := `
		SELECT user_name, user_email, user_address
		FROM userdata
		WHERE user_id = $1
	`

	var user domain.UserRecord
	err := s.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %d: %w", userID, err)
	}

	user.UserID = userID
	return &user, nil
}
