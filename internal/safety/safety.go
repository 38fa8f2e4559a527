// Package safety gates model-generated SQL before it reaches the store.
// The checks are lexical and deliberately conservative: a column named
// DROPOUT is rejected along with a real DROP. False positives cost a
// clarification round; false negatives would run hostile SQL.
package safety

import "strings"

var forbiddenKeywords = []string{"DROP", "DELETE", "UPDATE", "INSERT", "ALTER"}

// Validator decides whether a candidate SQL string may be executed.
// It is pure: no I/O, no errors, a plain yes/no.
type Validator struct {
	allowedTables map[string]struct{}
}

func NewValidator(allowedTables []string) *Validator {
	allowed := make(map[string]struct{}, len(allowedTables))
	for _, table := range allowedTables {
		trimmed := strings.ToUpper(strings.TrimSpace(table))
		if trimmed != "" {
			allowed[trimmed] = struct{}{}
		}
	}
	return &Validator{allowedTables: allowed}
}

// IsSafe accepts only SELECT statements that mention no mutating keyword
// anywhere and reference allow-listed tables after every FROM and JOIN.
// A trailing FROM/JOIN with nothing after it rejects the query. Commas
// stay attached to the relation token, so a comma-separated join list
// ("FROM signups, other") fails the allow-list compare instead of
// sneaking the second table past it. Leading whitespace rejects: the
// prefix check runs on the raw input.
func (v *Validator) IsSafe(sqlText string) bool {
	upper := strings.ToUpper(sqlText)
	if !strings.HasPrefix(upper, "SELECT") {
		return false
	}
	for _, keyword := range forbiddenKeywords {
		if strings.Contains(upper, keyword) {
			return false
		}
	}

	tokens := strings.Fields(upper)
	for i, token := range tokens {
		if token != "FROM" && token != "JOIN" {
			continue
		}
		if i+1 >= len(tokens) {
			return false
		}
		table := strings.Trim(tokens[i+1], `"();`)
		if _, ok := v.allowedTables[table]; !ok {
			return false
		}
	}
	return true
}
