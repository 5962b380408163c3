package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/Tanaychoubey/user-registration-api/internal/dbx"
	"github.com/Tanaychoubey/user-registration-api/internal/filex"
	"github.com/Tanaychoubey/user-registration-api/internal/logging"
	"github.com/Tanaychoubey/user-registration-api/internal/server/migrations"
	"github.com/Tanaychoubey/user-registration-api/internal/server/repositories/entries"
	"github.com/Tanaychoubey/user-registration-api/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Dialect describes how to talk to one database family.
type Dialect struct {
	// Driver is the database/sql driver name.
	Driver string
	// Goose is the goose dialect name.
	Goose string
	// MigrationsDir is the directory inside migrations.Migrations.
	MigrationsDir string
	// Bind is the sqlx placeholder style.
	Bind int
}

var (
	SQLite   = Dialect{Driver: "sqlite", Goose: "sqlite3", MigrationsDir: "sqlite", Bind: sqlx.QUESTION}
	Postgres = Dialect{Driver: "pgx", Goose: "postgres", MigrationsDir: "postgres", Bind: sqlx.DOLLAR}
)

// DialectFor picks Postgres for postgres:// and postgresql:// URLs and SQLite
// for everything else.
func DialectFor(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return Postgres
	}
	return SQLite
}

// SQLRepositoryManager builds SQL repositories for a single dialect.
type SQLRepositoryManager struct {
	dialect Dialect
	logger  logging.Logger
}

// NewSQLRepositoryManager returns a manager for d. Migration output goes to l.
func NewSQLRepositoryManager(d Dialect, l logging.Logger) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: d, logger: l}
}

func (m *SQLRepositoryManager) Dialect() Dialect {
	return m.dialect
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect.Bind)
}

func (m *SQLRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewSQLRepository(db, m.dialect.Bind)
}

// gooseMu guards goose's package-level base FS and dialect.
var gooseMu sync.Mutex

var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	sub, err := fs.Sub(migrations.Migrations, m.dialect.MigrationsDir)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(newGooseLogger(m.logger))
	goose.SetBaseFS(sub)
	if err := goose.SetDialect(m.dialect.Goose); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// Open connects to dsn, verifies the connection and applies migrations.
//
// An in-memory SQLite database lives only as long as its connection, so the
// SQLite pool is pinned to one long-lived connection. This also serializes
// every statement and transaction.
func Open(ctx context.Context, dsn string, logger logging.Logger) (*sql.DB, *SQLRepositoryManager, error) {
	d := DialectFor(dsn)

	if d.Driver == SQLite.Driver {
		if path := filex.SQLiteFilePath(dsn); path != "" {
			if err := filex.EnsureParentDir(path); err != nil {
				return nil, nil, fmt.Errorf("db dir error: %w", err)
			}
		}
	}

	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if d.Driver == SQLite.Driver {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	m := NewSQLRepositoryManager(d, logger)
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return db, m, nil
}
