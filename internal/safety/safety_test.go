package safety

import "testing"

func newSignupsValidator() *Validator {
	return NewValidator([]string{"signups"})
}

func TestIsSafeRejectsNonSelectStatements(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"PRAGMA table_info(signups)",
		"WITH q AS (SELECT 1) SELECT * FROM q",
		"EXPLAIN SELECT * FROM signups",
		"VACUUM",
	}
	for _, sqlText := range tests {
		if newSignupsValidator().IsSafe(sqlText) {
			t.Fatalf("IsSafe(%q) = true, want false", sqlText)
		}
	}
}

func TestIsSafeRejectsMutatingKeywordsAnywhere(t *testing.T) {
	tests := []string{
		"DROP TABLE signups",
		"delete from signups",
		"SELECT * FROM signups; DROP TABLE signups",
		"SELECT * FROM signups WHERE status = 'update'",
		"SELECT dropout_rate FROM signups",
		"SELECT * FROM signups WHERE username = 'INSERTED'",
	}
	for _, sqlText := range tests {
		if newSignupsValidator().IsSafe(sqlText) {
			t.Fatalf("IsSafe(%q) = true, want false", sqlText)
		}
	}
}

func TestIsSafeRejectsTablesOutsideAllowList(t *testing.T) {
	tests := []string{
		"SELECT * FROM accounts",
		"SELECT * FROM signups JOIN accounts ON signups.id = accounts.signup_id",
		"SELECT * FROM sqlite_master",
	}
	for _, sqlText := range tests {
		if newSignupsValidator().IsSafe(sqlText) {
			t.Fatalf("IsSafe(%q) = true, want false", sqlText)
		}
	}
}

func TestIsSafeAcceptsAllowListedSelects(t *testing.T) {
	tests := []string{
		"SELECT * FROM signups LIMIT 10",
		"select count(*) from signups",
		"SELECT username, week_number FROM signups WHERE week_number = 1",
		"SELECT status, COUNT(*) FROM signups GROUP BY status",
		"SELECT s1.username FROM signups s1 JOIN signups s2 ON s1.week_number = s2.week_number",
	}
	for _, sqlText := range tests {
		if !newSignupsValidator().IsSafe(sqlText) {
			t.Fatalf("IsSafe(%q) = false, want true", sqlText)
		}
	}
}

func TestIsSafeRejectsCommaSeparatedJoins(t *testing.T) {
	tests := []string{
		"SELECT * FROM signups, secrets",
		"SELECT * FROM secrets, signups",
		"SELECT * FROM signups,secrets",
		"SELECT s.username FROM signups s JOIN signups, secrets ON 1=1",
		"SELECT * FROM signups,",
	}
	for _, sqlText := range tests {
		if newSignupsValidator().IsSafe(sqlText) {
			t.Fatalf("IsSafe(%q) = true, want false", sqlText)
		}
	}
}

func TestIsSafeRejectsLeadingWhitespace(t *testing.T) {
	tests := []string{
		"  SELECT * FROM signups",
		"\nSELECT * FROM signups",
		"\tselect * from signups",
	}
	for _, sqlText := range tests {
		if newSignupsValidator().IsSafe(sqlText) {
			t.Fatalf("IsSafe(%q) = true, want false", sqlText)
		}
	}
}

func TestIsSafeRejectsTrailingFromAndJoin(t *testing.T) {
	tests := []string{
		"SELECT * FROM",
		"SELECT * FROM signups JOIN",
		"SELECT * FROM signups JOIN ",
	}
	for _, sqlText := range tests {
		if newSignupsValidator().IsSafe(sqlText) {
			t.Fatalf("IsSafe(%q) = true, want false", sqlText)
		}
	}
}

func TestIsSafeWithoutFromClause(t *testing.T) {
	if !newSignupsValidator().IsSafe("SELECT 1") {
		t.Fatal("IsSafe(SELECT 1) = false, want true")
	}
}

func TestValidatorAllowListIsCaseInsensitive(t *testing.T) {
	validator := NewValidator([]string{" Signups "})
	if !validator.IsSafe("SELECT * FROM SIGNUPS") {
		t.Fatal("IsSafe should match allow-list case-insensitively")
	}
}
