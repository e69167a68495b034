package users

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/windbreaker/internal/common"
	"github.com/dmitrijs2005/windbreaker/internal/server/migrations"
	"github.com/dmitrijs2005/windbreaker/internal/server/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupSQLite(t *testing.T) *sql.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "users.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, migrations.SQLiteDir))
	return db
}

func TestSQLite_CreateAndFind(t *testing.T) {
	db := setupSQLite(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a, err := r.Create(ctx, &models.Account{DisplayName: "Ana", Email: "ana@x.com", PasswordHash: "h1"})
	require.NoError(t, err)
	assert.NotZero(t, a.ID)

	got, err := r.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "Ana", got.DisplayName)
	assert.Equal(t, "h1", got.PasswordHash)
}

func TestSQLite_FindIsCaseSensitive(t *testing.T) {
	db := setupSQLite(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Create(ctx, &models.Account{DisplayName: "Ana", Email: "ana@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = r.FindByEmail(ctx, "ANA@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// a differently-cased email is a distinct key
	_, err = r.Create(ctx, &models.Account{DisplayName: "Ana 2", Email: "ANA@x.com", PasswordHash: "h"})
	assert.NoError(t, err)
}

func TestSQLite_DuplicateEmail(t *testing.T) {
	db := setupSQLite(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Create(ctx, &models.Account{DisplayName: "Ana", Email: "ana@x.com", PasswordHash: "h1"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.Account{DisplayName: "Impostor", Email: "ana@x.com", PasswordHash: "h2"})
	require.ErrorIs(t, err, common.ErrorDuplicateEmail)

	got, err := r.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.DisplayName, "original account must be untouched")
}

func TestSQLite_ConcurrentCreateAdmitsOne(t *testing.T) {
	db := setupSQLite(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		duplicate int
		other     []error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Create(ctx, &models.Account{DisplayName: "Ana", Email: "race@x.com", PasswordHash: "h"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, common.ErrorDuplicateEmail):
				duplicate++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, duplicate)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, "race@x.com").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLite_UpdatePassword(t *testing.T) {
	db := setupSQLite(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Create(ctx, &models.Account{DisplayName: "Ana", Email: "ana@x.com", PasswordHash: "old"})
	require.NoError(t, err)

	require.NoError(t, r.UpdatePassword(ctx, "ana@x.com", "new"))

	got, err := r.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)

	assert.ErrorIs(t, r.UpdatePassword(ctx, "ghost@x.com", "new"), common.ErrorNotFound)
}

func TestSQLite_FindNotFound(t *testing.T) {
	db := setupSQLite(t)
	r := NewSQLiteRepository(db)

	_, err := r.FindByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
