// Package entries provides the SQL-backed key-value data store.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Tanaychoubey/user-registration-api/internal/common"
	"github.com/Tanaychoubey/user-registration-api/internal/dbx"
	"github.com/Tanaychoubey/user-registration-api/internal/server/models"
	"github.com/jmoiron/sqlx"
)

// SQLRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db   dbx.DBTX
	bind int
}

// NewSQLRepository constructs a repository bound to the given DBTX and sqlx
// bind type.
func NewSQLRepository(db dbx.DBTX, bind int) *SQLRepository {
	return &SQLRepository{db: db, bind: bind}
}

// Create inserts a new entry. Uniqueness is enforced by the primary key, so
// two concurrent creates of the same key cannot both succeed.
func (r *SQLRepository) Create(ctx context.Context, entry *models.DataEntry) error {
	query := `INSERT INTO data (key, value, created_at, updated_at) VALUES (?, ?, ?, ?)`

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, sqlx.Rebind(r.bind, query), entry.Key, entry.Value, now, now)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, key string) (*models.DataEntry, error) {
	query := `SELECT key, value FROM data WHERE key = ?`

	e := &models.DataEntry{}
	err := r.db.QueryRowContext(ctx, sqlx.Rebind(r.bind, query), key).Scan(&e.Key, &e.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *SQLRepository) Update(ctx context.Context, key string, value string) error {
	query := `UPDATE data SET value = ?, updated_at = ? WHERE key = ?`

	res, err := r.db.ExecContext(ctx, sqlx.Rebind(r.bind, query), value, time.Now().UTC(), key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM data WHERE key = ?`

	res, err := r.db.ExecContext(ctx, sqlx.Rebind(r.bind, query), key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
