package store

import "context"

// Row is a single result record keyed by column name.
type Row map[string]any

// Result carries an ordered result set. Columns preserves the select-list
// order that the Row maps cannot.
type Result struct {
	Columns []string
	Rows    []Row
}

// Store is the read-only surface the turn pipeline depends on.
type Store interface {
	Schema(ctx context.Context) (string, error)
	Query(ctx context.Context, sqlText string) (Result, error)
	SampleRows(ctx context.Context, limit int) (string, error)
	Close() error
}
