package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaultsForDevProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("askdb", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.Store.Driver != DriverSQLite {
		t.Fatalf("Store.Driver = %q", cfg.Store.Driver)
	}
	if cfg.Store.Path != "signups.db" {
		t.Fatalf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Observability.LogJSON {
		t.Fatal("LogJSON should default to false in dev")
	}
	if cfg.Chat.MemoryContextTurns != 3 {
		t.Fatalf("Chat.MemoryContextTurns = %d", cfg.Chat.MemoryContextTurns)
	}
	if cfg.Chat.DirectContextTurns != 2 {
		t.Fatalf("Chat.DirectContextTurns = %d", cfg.Chat.DirectContextTurns)
	}
	if cfg.Chat.SampleRows != 3 {
		t.Fatalf("Chat.SampleRows = %d", cfg.Chat.SampleRows)
	}
	if cfg.Chat.AnswerRowLimit != 10 {
		t.Fatalf("Chat.AnswerRowLimit = %d", cfg.Chat.AnswerRowLimit)
	}
	if cfg.Chat.DefaultTable != "signups" {
		t.Fatalf("Chat.DefaultTable = %q", cfg.Chat.DefaultTable)
	}
	if len(cfg.Chat.AllowedTables) != 1 || cfg.Chat.AllowedTables[0] != "signups" {
		t.Fatalf("Chat.AllowedTables = %v", cfg.Chat.AllowedTables)
	}
	if cfg.AI.Timeout != 30*time.Second {
		t.Fatalf("AI.Timeout = %s", cfg.AI.Timeout)
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	lookup := mapLookup(map[string]string{"ASKDB_PROFILE": "prod"})
	cfg, err := Load("askdb", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileProd {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileProd)
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.Observability.LogJSON {
		t.Fatal("LogJSON should default to true in prod")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"ASKDB_PROFILE":                   "test",
		"ASKDB_SERVICE_NAME":              "askdb-custom",
		"ASKDB_STORE_DRIVER":              "duckdb",
		"ASKDB_STORE_PATH":                "/tmp/signups.duckdb",
		"ASKDB_STORE_MAX_OPEN_CONNS":      "8",
		"ASKDB_AI_BASE_URL":               "https://api.example.com",
		"ASKDB_AI_API_KEY":                "secret-key",
		"ASKDB_AI_MODEL":                  "llama-guard",
		"ASKDB_AI_TEMPERATURE":            "0.3",
		"ASKDB_AI_TIMEOUT":                "21s",
		"ASKDB_CHAT_MEMORY_CONTEXT_TURNS": "5",
		"ASKDB_CHAT_SAMPLE_ROWS":          "7",
		"ASKDB_CHAT_ANSWER_ROW_LIMIT":     "25",
		"ASKDB_CHAT_DEFAULT_TABLE":        "users",
		"ASKDB_CHAT_ALLOWED_TABLES":       "users, accounts",
		"ASKDB_LOG_LEVEL":                 "error",
		"ASKDB_METRICS_ADDR":              ":9090",
	})
	cfg, err := Load("askdb", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.Name != "askdb-custom" {
		t.Fatalf("Service.Name = %q", cfg.Service.Name)
	}
	if cfg.Store.Driver != DriverDuckDB {
		t.Fatalf("Store.Driver = %q", cfg.Store.Driver)
	}
	if cfg.Store.Path != "/tmp/signups.duckdb" {
		t.Fatalf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Store.MaxOpenConns != 8 {
		t.Fatalf("Store.MaxOpenConns = %d", cfg.Store.MaxOpenConns)
	}
	if cfg.AI.BaseURL != "https://api.example.com" {
		t.Fatalf("AI.BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.AI.APIKey != "secret-key" {
		t.Fatalf("AI.APIKey = %q", cfg.AI.APIKey)
	}
	if cfg.AI.Model != "llama-guard" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.Temperature != 0.3 {
		t.Fatalf("AI.Temperature = %f", cfg.AI.Temperature)
	}
	if cfg.AI.Timeout != 21*time.Second {
		t.Fatalf("AI.Timeout = %s", cfg.AI.Timeout)
	}
	if cfg.Chat.MemoryContextTurns != 5 {
		t.Fatalf("Chat.MemoryContextTurns = %d", cfg.Chat.MemoryContextTurns)
	}
	if cfg.Chat.SampleRows != 7 {
		t.Fatalf("Chat.SampleRows = %d", cfg.Chat.SampleRows)
	}
	if cfg.Chat.AnswerRowLimit != 25 {
		t.Fatalf("Chat.AnswerRowLimit = %d", cfg.Chat.AnswerRowLimit)
	}
	if cfg.Chat.DefaultTable != "users" {
		t.Fatalf("Chat.DefaultTable = %q", cfg.Chat.DefaultTable)
	}
	if len(cfg.Chat.AllowedTables) != 2 || cfg.Chat.AllowedTables[1] != "accounts" {
		t.Fatalf("Chat.AllowedTables = %v", cfg.Chat.AllowedTables)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Observability.MetricsAddr != ":9090" {
		t.Fatalf("MetricsAddr = %q", cfg.Observability.MetricsAddr)
	}
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	lookup := mapLookup(map[string]string{"ASKDB_STORE_DRIVER": "postgres"})
	if _, err := Load("askdb", lookup); err == nil {
		t.Fatal("Load() expected error when postgres driver has no DSN")
	}
}

func TestLoadErrorsOnInvalidValues(t *testing.T) {
	tests := []map[string]string{
		{"ASKDB_PROFILE": "oops"},
		{"ASKDB_STORE_DRIVER": "mysql"},
		{"ASKDB_STORE_MAX_OPEN_CONNS": "oops"},
		{"ASKDB_STORE_CONN_MAX_IDLE_TIME": "NaN"},
		{"ASKDB_AI_TEMPERATURE": "bad"},
		{"ASKDB_AI_TIMEOUT": "soon"},
		{"ASKDB_CHAT_SAMPLE_ROWS": "many"},
		{"ASKDB_CHAT_ALLOWED_TABLES": " , "},
		{"ASKDB_LOG_JSON": "not-bool"},
		{"ASKDB_LOG_LEVEL": "verbose"},
	}
	for _, env := range tests {
		_, err := Load("askdb", mapLookup(env))
		if err == nil {
			t.Fatalf("Load() expected error for env %#v", env)
		}
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
