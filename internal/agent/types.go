package agent

import "github.com/askdb/askdb/internal/store"

// Proposal is a synthesizer-produced candidate query plus declared intent.
// It has not passed safety validation and is not guaranteed to be valid SQL.
type Proposal struct {
	SQLQuery    string `json:"sql_query"`
	Intent      string `json:"intent"`
	Description string `json:"description"`
}

// Outcome is the result of attempting to answer through the database.
// Failures are carried as values: Err is set, Data is empty and Answer
// holds the user-facing message. Nothing inside the query path panics or
// propagates an error past the orchestrator.
type Outcome struct {
	Intent   string
	SQLQuery string
	Data     []store.Row
	Answer   string
	Err      error
}
