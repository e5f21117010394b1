package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a document or template id is not stored.
var ErrNotFound = errors.New("not found")

// Dialect is a SQL driver name accepted by Open.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// DB wraps a database/sql connection and the dialect it speaks.
type DB struct {
	conn    *sql.DB
	dialect Dialect
}

// Open connects to dsn with the given driver and runs migrations.
// For sqlite, dsn is a file path and its directory is created.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	dialect := Dialect(driver)
	switch dialect {
	case DialectSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite"
		}
	case DialectPostgres, DialectMySQL:
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if dialect == DialectSQLite {
		// SQLite only supports one writer; a single connection avoids SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	db := &DB{conn: conn, dialect: dialect}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Dialect returns the driver the connection was opened with.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

func (db *DB) migrate(ctx context.Context) error {
	text, ts := "TEXT", "DATETIME"
	switch db.dialect {
	case DialectPostgres:
		ts = "TIMESTAMPTZ"
	case DialectMySQL:
		text, ts = "MEDIUMTEXT", "DATETIME(6)"
	}

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id VARCHAR(64) PRIMARY KEY,
			name ` + text + ` NOT NULL,
			blocks_json ` + text + ` NOT NULL,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS templates (
			id VARCHAR(64) PRIMARY KEY,
			name ` + text + ` NOT NULL,
			category VARCHAR(128) NOT NULL,
			description ` + text + ` NOT NULL,
			blocks_json ` + text + ` NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", m[:40], err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (db *DB) rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// upsert builds an insert-or-update statement for table keyed by id.
func (db *DB) upsert(table string, cols []string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), marks)

	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == "id" || c == "created_at" {
			continue
		}
		if db.dialect == DialectMySQL {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", c, c))
		} else {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}
	if db.dialect == DialectMySQL {
		q += " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	} else {
		q += " ON CONFLICT (id) DO UPDATE SET " + strings.Join(sets, ", ")
	}
	return db.rebind(q)
}
