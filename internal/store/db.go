package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb/v2"
	_ "modernc.org/sqlite"
)

type Config struct {
	Driver          string
	Path            string
	DSN             string
	Table           string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// DB is a Store over a single database/sql handle. The handle is an
// explicitly constructed value owned by the composition root; callers are
// responsible for Close.
type DB struct {
	sqlDB   *sql.DB
	dialect dialect
	table   string
}

func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("store table is required")
	}
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dataSource := cfg.DSN
	if cfg.Driver != "postgres" {
		dataSource = cfg.Path
	}
	if dataSource == "" {
		return nil, fmt.Errorf("store data source is required for driver %q", cfg.Driver)
	}

	sqlDB, err := sql.Open(d.driverName(), dataSource)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	return &DB{sqlDB: sqlDB, dialect: d, table: cfg.Table}, nil
}

func (db *DB) Table() string {
	return db.table
}

func (db *DB) Close() error {
	return db.sqlDB.Close()
}

// Seed creates the signups table if missing and loads the fixed sample rows
// when it is empty. Idempotent; safe to run at every startup.
func (db *DB) Seed(ctx context.Context) (bool, error) {
	for _, statement := range db.dialect.createStatements(db.table) {
		if _, err := db.sqlDB.ExecContext(ctx, statement); err != nil {
			return false, fmt.Errorf("create table %q: %w", db.table, err)
		}
	}

	var count int
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(db.table))
	if err := db.sqlDB.QueryRowContext(ctx, countSQL).Scan(&count); err != nil {
		return false, fmt.Errorf("count rows in %q: %w", db.table, err)
	}
	if count > 0 {
		return false, nil
	}

	insertSQL := db.dialect.insertSignupSQL(db.table)
	for _, signup := range sampleSignups {
		if _, err := db.sqlDB.ExecContext(ctx, insertSQL,
			signup.Username, signup.Email, signup.SignupDate, signup.WeekNumber, signup.Status); err != nil {
			return false, fmt.Errorf("insert sample signup %q: %w", signup.Username, err)
		}
	}
	return true, nil
}

// Schema renders the table and column catalog as prompt-ready text.
func (db *DB) Schema(ctx context.Context) (string, error) {
	tables, err := db.dialect.listTables(ctx, db.sqlDB)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("Database Schema:\n")
	for _, table := range tables {
		columns, err := db.dialect.listColumns(ctx, db.sqlDB, table)
		if err != nil {
			return "", err
		}
		builder.WriteString(fmt.Sprintf("\nTable: %s\nColumns:\n", table))
		for _, col := range columns {
			builder.WriteString(fmt.Sprintf("  - %s (%s)\n", col.Name, col.Type))
		}
	}
	return builder.String(), nil
}

func (db *DB) Query(ctx context.Context, sqlText string) (Result, error) {
	trimmed := stripTrailingSemicolons(sqlText)
	if trimmed == "" {
		return Result{}, fmt.Errorf("sql is required")
	}

	rows, err := db.sqlDB.QueryContext(ctx, trimmed)
	if err != nil {
		return Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("query columns: %w", err)
	}

	resultRows := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return Result{}, fmt.Errorf("scan row: %w", err)
		}
		record := make(Row, len(columns))
		for i, name := range columns {
			record[name] = normalizeValue(values[i])
		}
		resultRows = append(resultRows, record)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterate rows: %w", err)
	}

	return Result{Columns: columns, Rows: resultRows}, nil
}

// SampleRows returns up to limit rows of the default table serialized as
// indented JSON, used to ground SQL synthesis prompts.
func (db *DB) SampleRows(ctx context.Context, limit int) (string, error) {
	if limit <= 0 {
		limit = 3
	}
	result, err := db.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(db.table), limit))
	if err != nil {
		return "", err
	}
	serialized, err := json.MarshalIndent(result.Rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize sample rows: %w", err)
	}
	return fmt.Sprintf("Sample data (first %d rows):\n%s", limit, serialized), nil
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case []byte:
		return string(typed)
	default:
		return typed
	}
}

func stripTrailingSemicolons(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	return trimmed
}

type signupRecord struct {
	Username   string
	Email      string
	SignupDate string
	WeekNumber int
	Status     string
}

var sampleSignups = []signupRecord{
	{Username: "Alice", Email: "alice@example.com", SignupDate: "2024-01-02", WeekNumber: 1, Status: "active"},
	{Username: "Bob", Email: "bob@example.com", SignupDate: "2024-01-05", WeekNumber: 1, Status: "active"},
	{Username: "Charlie", Email: "charlie@example.com", SignupDate: "2024-01-10", WeekNumber: 2, Status: "active"},
	{Username: "Diana", Email: "diana@example.com", SignupDate: "2024-01-15", WeekNumber: 3, Status: "active"},
	{Username: "Eve", Email: "eve@example.com", SignupDate: "2024-01-18", WeekNumber: 3, Status: "active"},
	{Username: "Frank", Email: "frank@example.com", SignupDate: "2024-01-20", WeekNumber: 3, Status: "inactive"},
}
