package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Tanaychoubey/user-registration-api/internal/dbx"
	"github.com/Tanaychoubey/user-registration-api/internal/logging"
	"github.com/Tanaychoubey/user-registration-api/internal/server/config"
	"github.com/Tanaychoubey/user-registration-api/internal/server/models"
	"github.com/Tanaychoubey/user-registration-api/internal/server/repositories/entries"
	"github.com/Tanaychoubey/user-registration-api/internal/server/repositories/repomanager"
	"github.com/Tanaychoubey/user-registration-api/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		BcryptCost:                  bcrypt.MinCost,
	}
}

func openStore(t *testing.T) (*sql.DB, *repomanager.SQLRepositoryManager) {
	t.Helper()
	db, m, err := repomanager.Open(context.Background(), ":memory:", logging.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, m
}

// fakeRM returns the configured fakes regardless of the handle it is given.
type fakeRM struct {
	users   users.Repository
	entries entries.Repository
}

func (f *fakeRM) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (f *fakeRM) Users(dbx.DBTX) users.Repository                     { return f.users }
func (f *fakeRM) Entries(dbx.DBTX) entries.Repository                 { return f.entries }

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byLogin    *models.User
	byLoginErr error
	byEmail    *models.User
	byEmailErr error
	byID       *models.User
	byIDErr    error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return f.byLogin, f.byLoginErr
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail, f.byEmailErr
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return f.byID, f.byIDErr
}

type fakeEntriesRepo struct {
	err error
}

func (f *fakeEntriesRepo) Create(ctx context.Context, e *models.DataEntry) error { return f.err }
func (f *fakeEntriesRepo) Get(ctx context.Context, key string) (*models.DataEntry, error) {
	return nil, f.err
}
func (f *fakeEntriesRepo) Update(ctx context.Context, key, value string) error { return f.err }
func (f *fakeEntriesRepo) Delete(ctx context.Context, key string) error        { return f.err }
