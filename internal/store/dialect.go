package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type column struct {
	Name string
	Type string
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// dialect isolates the per-driver differences: DDL, insert placeholders and
// catalog introspection. Everything else in DB is shared.
type dialect interface {
	driverName() string
	createStatements(table string) []string
	insertSignupSQL(table string) string
	listTables(ctx context.Context, q queryer) ([]string, error)
	listColumns(ctx context.Context, q queryer, table string) ([]column, error)
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "sqlite":
		return sqliteDialect{}, nil
	case "duckdb":
		return duckdbDialect{}, nil
	case "postgres":
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

type sqliteDialect struct{}

func (sqliteDialect) driverName() string { return "sqlite" }

func (sqliteDialect) createStatements(table string) []string {
	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	email TEXT,
	signup_date DATE NOT NULL,
	week_number INTEGER,
	status TEXT DEFAULT 'active'
)`, quoteIdent(table))}
}

func (sqliteDialect) insertSignupSQL(table string) string {
	return fmt.Sprintf("INSERT INTO %s (username, email, signup_date, week_number, status) VALUES (?, ?, ?, ?, ?)", quoteIdent(table))
}

func (sqliteDialect) listTables(ctx context.Context, q queryer) ([]string, error) {
	return scanStrings(ctx, q, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
}

func (sqliteDialect) listColumns(ctx context.Context, q queryer, table string) ([]column, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("table info for %q: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns := make([]column, 0)
	for rows.Next() {
		var (
			cid          int
			name, ctype  string
			notNull, pk  int
			defaultValue sql.NullString
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("scan table info row: %w", err)
		}
		columns = append(columns, column{Name: name, Type: ctype})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table info rows: %w", err)
	}
	return columns, nil
}

type duckdbDialect struct{}

func (duckdbDialect) driverName() string { return "duckdb" }

func (duckdbDialect) createStatements(table string) []string {
	// nextval takes the sequence name as a string; using the quoted
	// identifier in both statements keeps them resolving to the same
	// sequence for any configured table name.
	sequence := quoteIdent(table + "_id_seq")
	return []string{
		fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s", sequence),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY DEFAULT nextval('%s'),
	username TEXT NOT NULL,
	email TEXT,
	signup_date DATE NOT NULL,
	week_number INTEGER,
	status TEXT DEFAULT 'active'
)`, quoteIdent(table), sequence),
	}
}

func (duckdbDialect) insertSignupSQL(table string) string {
	return fmt.Sprintf("INSERT INTO %s (username, email, signup_date, week_number, status) VALUES (?, ?, ?, ?, ?)", quoteIdent(table))
}

func (duckdbDialect) listTables(ctx context.Context, q queryer) ([]string, error) {
	return scanStrings(ctx, q, `SELECT table_name FROM information_schema.tables WHERE table_schema = 'main' ORDER BY table_name`)
}

func (duckdbDialect) listColumns(ctx context.Context, q queryer, table string) ([]column, error) {
	return scanColumns(ctx, q, `SELECT column_name, data_type FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position`, table)
}

type postgresDialect struct{}

func (postgresDialect) driverName() string { return "pgx" }

func (postgresDialect) createStatements(table string) []string {
	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id SERIAL PRIMARY KEY,
	username TEXT NOT NULL,
	email TEXT,
	signup_date DATE NOT NULL,
	week_number INTEGER,
	status TEXT DEFAULT 'active'
)`, quoteIdent(table))}
}

func (postgresDialect) insertSignupSQL(table string) string {
	return fmt.Sprintf("INSERT INTO %s (username, email, signup_date, week_number, status) VALUES ($1, $2, $3, $4, $5)", quoteIdent(table))
}

func (postgresDialect) listTables(ctx context.Context, q queryer) ([]string, error) {
	return scanStrings(ctx, q, `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name`)
}

func (postgresDialect) listColumns(ctx context.Context, q queryer, table string) ([]column, error) {
	return scanColumns(ctx, q, `SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position`, table)
}

func scanStrings(ctx context.Context, q queryer, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	values := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table names: %w", err)
	}
	return values, nil
}

func scanColumns(ctx context.Context, q queryer, query string, args ...any) ([]column, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns := make([]column, 0)
	for rows.Next() {
		var col column
		if err := rows.Scan(&col.Name, &col.Type); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}
	return columns, nil
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
