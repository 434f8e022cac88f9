// Package postgres provides the PostgreSQL-backed user.Store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/jmoiron/sqlx"

	"github.com/auth-platform/user-service/internal/user"
)

// Store implements user.Store against PostgreSQL. Each method is one
// statement, so the database's own transaction isolation serializes
// concurrent operations on the same row.
type Store struct {
	db *sqlx.DB
}

// Config holds database connection settings.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.URL)
	if err != nil {
		return nil, user.WrapError(user.ErrStoreDown, "failed to connect to database", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Store{db: db}, nil
}

// NewStore wraps an existing connection pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new user. Both timestamps are set from the same instant
// so created_at == updated_at holds exactly at creation.
func (s *Store) Create(ctx context.Context, in user.CreateInput) (*user.User, error) {
	now := time.Now().UTC()

	query := `
		INSERT INTO users (name, surname, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, name, surname, password, created_at, updated_at`

	var u user.User
	if err := s.db.GetContext(ctx, &u, query, in.Name, in.Surname, in.Password, now); err != nil {
		return nil, user.WrapError(user.ErrStoreDown, "failed to create user", err)
	}
	return &u, nil
}

// GetByID retrieves a user by id.
func (s *Store) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
		SELECT id, name, surname, password, created_at, updated_at
		FROM users
		WHERE id = $1`

	var u user.User
	if err := s.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, user.WrapError(user.ErrStoreDown, "failed to get user", err)
	}
	return &u, nil
}

// List retrieves one page of users ordered by id ascending plus the total
// count.
func (s *Store) List(ctx context.Context, page user.PageRequest) (*user.PageResult, error) {
	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, user.WrapError(user.ErrStoreDown, "failed to count users", err)
	}

	query := `
		SELECT id, name, surname, password, created_at, updated_at
		FROM users
		ORDER BY id ASC
		LIMIT $1 OFFSET $2`

	users := make([]user.User, 0, page.PerPage)
	if err := s.db.SelectContext(ctx, &users, query, page.PerPage, page.Offset()); err != nil {
		return nil, user.WrapError(user.ErrStoreDown, "failed to list users", err)
	}

	return &user.PageResult{
		Users:   users,
		Total:   total,
		Page:    page.Page,
		PerPage: page.PerPage,
	}, nil
}

// Update applies the supplied fields only and refreshes updated_at.
// created_at is never touched.
func (s *Store) Update(ctx context.Context, id int64, in user.UpdateInput) (*user.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
		    surname = COALESCE($3, surname),
		    password = COALESCE($4, password),
		    updated_at = $5
		WHERE id = $1
		RETURNING id, name, surname, password, created_at, updated_at`

	var u user.User
	err := s.db.GetContext(ctx, &u, query, id, in.Name, in.Surname, in.Password, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, user.WrapError(user.ErrStoreDown, "failed to update user", err)
	}
	return &u, nil
}

// Delete removes a user row.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return user.WrapError(user.ErrStoreDown, "failed to delete user", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return user.WrapError(user.ErrStoreDown, "failed to delete user", err)
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return user.WrapError(user.ErrStoreDown, "database ping failed", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
