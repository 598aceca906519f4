// Package storage is the SQLite-backed user repository of the development
// API server.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/akarpovs/bannerdesk/internal/common"
	"github.com/akarpovs/bannerdesk/internal/dbx"
	"github.com/akarpovs/bannerdesk/internal/server/migrations"
)

// User is an administrator account. PasswordHash never leaves the server;
// the JSON shape of the remaining fields is what login and profile responses
// put under "admin".
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
	Image        string `json:"image,omitempty"`
}

// ProfileUpdate is a partial change to a user's profile. Nil fields keep
// their stored values.
type ProfileUpdate struct {
	Name        *string `json:"name"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	CountryCode *string `json:"country_code"`
	Image       *string `json:"image"`
}

// Storage wraps the user database.
type Storage struct {
	db *sql.DB
}

// Open opens (creating if needed) the user database at dsn and runs the
// embedded migrations.
func Open(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStorage(db), nil
}

// NewStorage wraps an already-open, already-migrated database.
func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

const userColumns = `id, email, password_hash, name, first_name, last_name, phone, country_code, image`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.FirstName,
		&u.LastName, &u.Phone, &u.CountryCode, &u.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new administrator account with a fresh id.
func (s *Storage) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	u := &User{ID: uuid.NewString(), Email: email, PasswordHash: passwordHash}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetByEmail returns the user with the given email, or common.ErrNotFound.
func (s *Storage) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// GetByID returns the user with the given id, or common.ErrNotFound.
func (s *Storage) GetByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// UpdateProfile applies a partial profile change to the user with the given
// id and returns the updated record. The read-modify-write runs in one
// transaction so concurrent updates cannot interleave.
func (s *Storage) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	var updated *User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
		u, err := scanUser(row)
		if err != nil {
			return err
		}

		apply(&u.Name, upd.Name)
		apply(&u.FirstName, upd.FirstName)
		apply(&u.LastName, upd.LastName)
		apply(&u.Email, upd.Email)
		apply(&u.Phone, upd.Phone)
		apply(&u.CountryCode, upd.CountryCode)
		apply(&u.Image, upd.Image)

		_, err = tx.ExecContext(ctx, `
			UPDATE users SET
				email = ?, name = ?, first_name = ?, last_name = ?,
				phone = ?, country_code = ?, image = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, u.Email, u.Name, u.FirstName, u.LastName, u.Phone, u.CountryCode, u.Image, id)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func apply(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// EnsureSeedAdmin creates the seed administrator account unless a user with
// that email already exists.
func (s *Storage) EnsureSeedAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}
	_, err = s.CreateUser(ctx, email, passwordHash)
	return err
}
