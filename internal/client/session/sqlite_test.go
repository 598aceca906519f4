package session

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/akarpovs/bannerdesk/internal/client/models"
	"github.com/akarpovs/bannerdesk/internal/logging"
)

const schema = `
CREATE TABLE session (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
CREATE TABLE session_revision (
  id       INTEGER PRIMARY KEY CHECK (id = 1),
  revision INTEGER NOT NULL
);
INSERT INTO session_revision (id, revision) VALUES (1, 0);
`

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// openSessionDB opens a connection to a shared in-memory database unique to
// the test. Several connections to the same name see the same data, which is
// how the tests simulate independent processes sharing one session file.
func openSessionDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db := openSessionDB(t, t.Name())
	_, err := db.Exec(schema)
	require.NoError(t, err)
	return NewSQLiteStore(db, testLogger())
}

func TestSQLiteStore_EmptyAtFirstRun(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.Empty(t, s.AccessToken(ctx))
	require.Nil(t, s.User(ctx))
	require.EqualValues(t, 0, s.Revision(ctx))
}

func TestSQLiteStore_TokenAndUserIndependentlySettable(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	s.SetAccessToken(ctx, "T1")
	require.Equal(t, "T1", s.AccessToken(ctx))
	require.Nil(t, s.User(ctx), "token present with no profile is a valid state")

	s.SetUser(ctx, &models.Profile{Email: "a@b.com"})
	require.Equal(t, "a@b.com", s.User(ctx).Email)

	s.ClearAccessToken(ctx)
	require.Empty(t, s.AccessToken(ctx))
	require.NotNil(t, s.User(ctx), "clearing the token must not touch the profile")

	s.ClearUser(ctx)
	require.Nil(t, s.User(ctx))
}

func TestSQLiteStore_SetUserReplacesWholeProfile(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	s.SetUser(ctx, &models.Profile{FirstName: "A", Email: "a@b.com"})
	s.SetUser(ctx, &models.Profile{FirstName: "B"})

	got := s.User(ctx)
	require.Equal(t, "B", got.FirstName)
	require.Empty(t, got.Email, "SetUser is a full replace, not a merge")
}

func TestSQLiteStore_SetSessionAndClearAreAtomicPairs(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	s.SetSession(ctx, "T1", &models.Profile{FirstName: "A"})
	require.Equal(t, "T1", s.AccessToken(ctx))
	require.Equal(t, "A", s.User(ctx).FirstName)

	rev := s.Revision(ctx)
	require.EqualValues(t, 1, rev, "one atomic write bumps the revision once")

	s.Clear(ctx)
	require.Empty(t, s.AccessToken(ctx))
	require.Nil(t, s.User(ctx))
	require.EqualValues(t, 2, s.Revision(ctx))
}

func TestSQLiteStore_ClearIsIdempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	s.SetSession(ctx, "T1", &models.Profile{Email: "a@b.com"})
	s.Clear(ctx)
	require.NotPanics(t, func() { s.Clear(ctx) })
	require.Empty(t, s.AccessToken(ctx))
	require.Nil(t, s.User(ctx))
}

func TestSQLiteStore_CrossContextVisibility(t *testing.T) {
	// Two independently-initialized stores over the same backing database
	// stand in for two tabs of the same origin.
	dbA := openSessionDB(t, t.Name())
	_, err := dbA.Exec(schema)
	require.NoError(t, err)
	dbB := openSessionDB(t, t.Name())

	a := NewSQLiteStore(dbA, testLogger())
	b := NewSQLiteStore(dbB, testLogger())
	ctx := context.Background()

	a.SetSession(ctx, "T1", &models.Profile{FirstName: "A", Email: "a@b.com"})

	require.Equal(t, "T1", b.AccessToken(ctx))
	require.Equal(t, "a@b.com", b.User(ctx).Email)
	require.Equal(t, a.Revision(ctx), b.Revision(ctx))

	b.Clear(ctx)
	require.Empty(t, a.AccessToken(ctx), "last write wins across contexts")
	require.Nil(t, a.User(ctx))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	db := openSessionDB(t, t.Name())
	_, err := db.Exec(schema)
	require.NoError(t, err)

	s := NewSQLiteStore(db, testLogger())
	ctx := context.Background()
	s.SetSession(ctx, "T1", &models.Profile{Email: "a@b.com"})

	// A fresh store over the same database simulates a process restart.
	reopened := NewSQLiteStore(openSessionDB(t, t.Name()), testLogger())
	require.Equal(t, "T1", reopened.AccessToken(ctx))
	require.Equal(t, "a@b.com", reopened.User(ctx).Email)
}

func TestSQLiteStore_WriteFailureKeepsInMemorySession(t *testing.T) {
	db := openSessionDB(t, t.Name())
	_, err := db.Exec(schema)
	require.NoError(t, err)

	s := NewSQLiteStore(db, testLogger())
	ctx := context.Background()

	// Break durable storage underneath the store.
	_, err = db.Exec(`DROP TABLE session`)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		s.SetSession(ctx, "T1", &models.Profile{Email: "a@b.com"})
	})

	// The in-memory session still functions for this process.
	require.Equal(t, "T1", s.AccessToken(ctx))
	require.Equal(t, "a@b.com", s.User(ctx).Email)
}

func TestOpen_RunsMigrations(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := Open(context.Background(), dsn, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.Empty(t, s.AccessToken(ctx))
	s.SetAccessToken(ctx, "T1")
	require.Equal(t, "T1", s.AccessToken(ctx))
}
