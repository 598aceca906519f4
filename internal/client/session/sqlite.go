package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/akarpovs/bannerdesk/internal/client/migrations"
	"github.com/akarpovs/bannerdesk/internal/client/models"
	"github.com/akarpovs/bannerdesk/internal/dbx"
	"github.com/akarpovs/bannerdesk/internal/logging"
)

const (
	keyAccessToken = "access_token"
	keyUser        = "user"
)

// SQLiteStore is the durable Store implementation. The database file is the
// shared storage scope: every console process opening the same path sees the
// same session.
//
// Each store keeps an in-memory mirror of the last known state. The mirror
// serves reads and writes when the database is unavailable (locked file,
// disk full), so the current process keeps a working session even when
// persistence fails.
type SQLiteStore struct {
	db  *sql.DB
	log logging.Logger

	mu       sync.Mutex
	token    string
	user     *models.Profile
	revision int64
	// dirty is set once a write failed to persist. From that point on the
	// database no longer reflects this process's session, so reads serve
	// the mirror for the rest of the process lifetime.
	dirty bool
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (creating if needed) the session database at dsn and runs the
// embedded migrations.
func Open(ctx context.Context, dsn string, log logging.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLiteStore(db, log), nil
}

// NewSQLiteStore wraps an already-open, already-migrated database. Used by
// tests that share one in-memory database between several store instances.
func NewSQLiteStore(db *sql.DB, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log}
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AccessToken(ctx context.Context) string {
	s.mu.Lock()
	if s.dirty {
		defer s.mu.Unlock()
		return s.token
	}
	s.mu.Unlock()

	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, keyAccessToken).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		return ""
	case err != nil:
		s.log.Warn(ctx, "session read failed, serving in-memory state", "key", keyAccessToken, "error", err)
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.token
	}

	token := string(value)
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return token
}

func (s *SQLiteStore) SetAccessToken(ctx context.Context, token string) int64 {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return upsert(ctx, tx, keyAccessToken, []byte(token))
	}, func() {
		s.token = token
	})
}

func (s *SQLiteStore) ClearAccessToken(ctx context.Context) int64 {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return del(ctx, tx, keyAccessToken)
	}, func() {
		s.token = ""
	})
}

func (s *SQLiteStore) User(ctx context.Context) *models.Profile {
	s.mu.Lock()
	if s.dirty {
		defer s.mu.Unlock()
		return s.user
	}
	s.mu.Unlock()

	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, keyUser).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
		s.mu.Lock()
		s.user = nil
		s.mu.Unlock()
		return nil
	case err != nil:
		s.log.Warn(ctx, "session read failed, serving in-memory state", "key", keyUser, "error", err)
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.user
	}

	var p models.Profile
	if err := json.Unmarshal(value, &p); err != nil {
		s.log.Warn(ctx, "stored profile is malformed, serving in-memory state", "error", err)
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.user
	}
	s.mu.Lock()
	s.user = &p
	s.mu.Unlock()
	return &p
}

func (s *SQLiteStore) SetUser(ctx context.Context, p *models.Profile) int64 {
	if p == nil {
		return s.ClearUser(ctx)
	}
	value, err := json.Marshal(p)
	if err != nil {
		s.log.Error(ctx, "profile not serializable", "error", err)
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.revision
	}
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return upsert(ctx, tx, keyUser, value)
	}, func() {
		s.user = p
	})
}

func (s *SQLiteStore) ClearUser(ctx context.Context) int64 {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return del(ctx, tx, keyUser)
	}, func() {
		s.user = nil
	})
}

func (s *SQLiteStore) SetSession(ctx context.Context, token string, p *models.Profile) int64 {
	var value []byte
	if p != nil {
		var err error
		if value, err = json.Marshal(p); err != nil {
			s.log.Error(ctx, "profile not serializable", "error", err)
			p, value = nil, nil
		}
	}
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := upsert(ctx, tx, keyAccessToken, []byte(token)); err != nil {
			return err
		}
		if p == nil {
			return del(ctx, tx, keyUser)
		}
		return upsert(ctx, tx, keyUser, value)
	}, func() {
		s.token = token
		s.user = p
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) int64 {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := del(ctx, tx, keyAccessToken); err != nil {
			return err
		}
		return del(ctx, tx, keyUser)
	}, func() {
		s.token = ""
		s.user = nil
	})
}

func (s *SQLiteStore) Revision(ctx context.Context) int64 {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM session_revision WHERE id = 1`).Scan(&rev)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.revision
	}
	s.mu.Lock()
	if rev > s.revision {
		s.revision = rev
	}
	rev = s.revision
	s.mu.Unlock()
	return rev
}

// write runs the durable mutation plus the revision bump in one transaction,
// then applies the same change to the in-memory mirror and returns the
// revision the write produced. A failed transaction downgrades to a
// mirror-only update: the current process keeps its session, other processes
// simply will not observe the change.
func (s *SQLiteStore) write(ctx context.Context, mutate func(ctx context.Context, tx dbx.DBTX) error, applyMirror func()) int64 {
	var persisted int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := mutate(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE session_revision SET revision = revision + 1 WHERE id = 1`); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT revision FROM session_revision WHERE id = 1`).Scan(&persisted)
	})

	s.mu.Lock()
	applyMirror()
	if err == nil && persisted > s.revision {
		s.revision = persisted
	} else {
		s.revision++
	}
	rev := s.revision
	if err != nil {
		s.dirty = true
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn(ctx, "session write not persisted, in-memory only", "error", err)
	}
	return rev
}

func upsert(ctx context.Context, tx dbx.DBTX, key string, value []byte) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func del(ctx context.Context, tx dbx.DBTX, key string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, key)
	return err
}
