package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/askdb/askdb/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Profile: config.ProfileDev,
		Service: config.ServiceConfig{Name: "askdb"},
		Observability: config.ObservabilityConfig{
			LogLevel: slog.LevelInfo,
		},
	}
}

func TestNewLoggerTextCarriesServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(testConfig(), &buf)

	logger.Info("turn completed")

	line := buf.String()
	if !strings.Contains(line, "service=askdb") {
		t.Fatalf("log line missing service attr: %q", line)
	}
	if !strings.Contains(line, "profile=dev") {
		t.Fatalf("log line missing profile attr: %q", line)
	}
}

func TestNewLoggerJSONHandler(t *testing.T) {
	cfg := testConfig()
	cfg.Observability.LogJSON = true

	var buf bytes.Buffer
	logger := NewLogger(cfg, &buf)
	logger.Info("turn completed", slog.String("path", "db"))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	if decoded["service"] != "askdb" || decoded["path"] != "db" {
		t.Fatalf("decoded log line = %v", decoded)
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(testConfig(), &buf)

	logger.Debug("decision step")
	if buf.Len() != 0 {
		t.Fatalf("debug line emitted at info level: %q", buf.String())
	}
}

func TestNewLoggerNilWriterDiscards(t *testing.T) {
	logger := NewLogger(testConfig(), nil)
	logger.Info("should not panic")
}
