// Package users provides the SQL-backed credential store.
package users

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

const selectUser = `SELECT id, username, email, password, full_name, age, gender FROM users `

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
// Queries are written with ? placeholders and rebound for the driver.
type SQLRepository struct {
	db   dbx.DBTX
	bind int
}

// NewSQLRepository binds the repository to db; bind is one of the sqlx bind
// types (sqlx.QUESTION for SQLite, sqlx.DOLLAR for PostgreSQL).
func NewSQLRepository(db dbx.DBTX, bind int) *SQLRepository {
	return &SQLRepository{db: db, bind: bind}
}

func (r *SQLRepository) rebind(query string) string {
	return sqlx.Rebind(r.bind, query)
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, password, full_name, age, gender, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id
		 `

	now := time.Now().UTC()

	err := r.db.QueryRowContext(ctx, r.rebind(query),
		user.UserName, user.Email, user.Password, user.FullName,
		nullInt(user.Age), nullString(user.Gender), now, now).Scan(&user.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

func (r *SQLRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	return r.getOne(ctx, selectUser+`WHERE username = ?`, userName)
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUser+`WHERE email = ?`, email)
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, selectUser+`WHERE id = ?`, id)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		user   models.User
		age    sql.NullInt64
		gender sql.NullString
	)

	err := r.db.QueryRowContext(ctx, r.rebind(query), arg).
		Scan(&user.ID, &user.UserName, &user.Email, &user.Password, &user.FullName, &age, &gender)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if age.Valid {
		v := int(age.Int64)
		user.Age = &v
	}
	if gender.Valid {
		user.Gender = &gender.String
	}

	return &user, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
