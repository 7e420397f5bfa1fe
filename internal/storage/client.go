package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dhima/recipe-list-platform/internal/storage/migrations"
	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	// Name is the driver name registered with database/sql.
	Name string
	// upsert is appended to the recipe INSERT statement.
	upsert string
}

var (
	// SQLite is the embedded default, backed by modernc.org/sqlite.
	SQLite = Dialect{
		Name: "sqlite",
		upsert: `ON CONFLICT(recipe_id) DO UPDATE SET
			title = excluded.title,
			image_url = excluded.image_url,
			source_url = excluded.source_url,
			favorite = excluded.favorite,
			updated_at = CURRENT_TIMESTAMP`,
	}

	// MySQL targets a shared MySQL server.
	MySQL = Dialect{
		Name: "mysql",
		upsert: `ON DUPLICATE KEY UPDATE
			title = VALUES(title),
			image_url = VALUES(image_url),
			source_url = VALUES(source_url),
			favorite = VALUES(favorite)`,
	}
)

// DialectFor resolves a driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// SQLClient wraps direct SQL access for recipes.
type SQLClient struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLClient wires an already opened sql.DB; the schema must exist.
func NewSQLClient(db *sql.DB, dialect Dialect) *SQLClient {
	return &SQLClient{db: db, dialect: dialect}
}

// Open connects to the database, applies the embedded migrations and returns
// a ready client.
func Open(ctx context.Context, driver, dsn string) (*SQLClient, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	if dialect == MySQL {
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(dialect.Name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dialect == SQLite {
		// Every connection to :memory: is a separate database, and SQLite
		// allows a single writer anyway.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxIdleConns(5)
		db.SetMaxOpenConns(20)
		db.SetConnMaxLifetime(60 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	client := NewSQLClient(db, dialect)
	if err := client.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return client, nil
}

// mysqlDSN makes RowsAffected count matched rows rather than changed rows,
// which UpdateRecipe relies on.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// Migrate applies every embedded schema file of the client's dialect in
// lexical order. Statements are idempotent.
func (c *SQLClient) Migrate(ctx context.Context) error {
	files, err := fs.Glob(migrations.FS, path.Join(c.dialect.Name, "*.sql"))
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, name := range files {
		body, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		for _, stmt := range strings.Split(string(body), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := c.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
		}
	}

	return nil
}

// Dialect reports which database the client talks to.
func (c *SQLClient) Dialect() Dialect {
	return c.dialect
}

// Ping checks that the database is reachable.
func (c *SQLClient) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (c *SQLClient) Close() error {
	return c.db.Close()
}
