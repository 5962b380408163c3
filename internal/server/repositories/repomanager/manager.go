// Package repomanager opens the storage backend, applies migrations and hands
// out repositories bound to either the pool or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/Tanaychoubey/user-registration-api/internal/dbx"
	"github.com/Tanaychoubey/user-registration-api/internal/server/repositories/entries"
	"github.com/Tanaychoubey/user-registration-api/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
}
