package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) Store {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, hashed_password, role, created_at
		FROM users
		WHERE username = $1
	`

	var u User
	err := s.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.HashedPassword, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, user *User) error {
	if user.HashedPassword == "" {
		return fmt.Errorf("hashed_password is required")
	}

	query := `
		INSERT INTO users (username, hashed_password, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE
		SET hashed_password = EXCLUDED.hashed_password, role = EXCLUDED.role
		RETURNING id, created_at
	`

	err := s.db.QueryRow(ctx, query, user.Username, user.HashedPassword, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}
