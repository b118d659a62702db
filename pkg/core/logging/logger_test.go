package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/pkg/core/config"
)

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("my-service")

	if cfg.ServiceName != "my-service" {
		t.Errorf("ServiceName = %v, want my-service", cfg.ServiceName)
	}
	if cfg.Level != "info" {
		t.Errorf("Level = %v, want info", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %v, want json", cfg.Format)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName: "test-service",
		Level:       "debug",
		Format:      "json",
		Output:      &buf,
	})

	logger.Debug("hello", sflog.Fields{"key": "value"})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["message"] != "hello" || entry["key"] != "value" {
		t.Errorf("entry = %v", entry)
	}
	if logger.Name() != "test-service" {
		t.Errorf("Name() = %q", logger.Name())
	}
}

func TestNewLogger_Fallbacks(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: "loud", Format: "xml", Output: &buf})

	if logger.GetLevel() != sflog.LevelInfo {
		t.Errorf("level = %v, want info", logger.GetLevel())
	}
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug entry written at info level: %s", buf.String())
	}
}

func TestNewLogger_AdditionalOutputs(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Format:            "logfmt",
		Output:            &primary,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Info("twice")
	if primary.String() == "" || primary.String() != extra.String() {
		t.Errorf("outputs differ:\n%q\n%q", primary.String(), extra.String())
	}
}

func TestFromConfig(t *testing.T) {
	previous := sflog.GetDefault()
	defer sflog.SetDefault(previous)

	cfg := config.Default()
	cfg.General.LogLevel = "warn"
	cfg.General.LogFormat = "text"

	logger := FromConfig(cfg, "scriptfront")
	if logger.GetLevel() != sflog.LevelWarn {
		t.Errorf("level = %v, want warn", logger.GetLevel())
	}
	if sflog.GetDefault() != logger {
		t.Error("FromConfig must install the logger as default")
	}
}

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := Wrap(NewLogger(LoggerConfig{ServiceName: "kv", Format: "logfmt", Output: &buf}))

	logger.Info("message", "key1", "value1", "key2", 42, "orphan")
	out := buf.String()
	if !strings.Contains(out, `key1="value1"`) || !strings.Contains(out, "key2=42") {
		t.Errorf("output = %s", out)
	}
	if strings.Contains(out, "orphan") {
		t.Errorf("orphan key must be dropped: %s", out)
	}

	buf.Reset()
	logger.With("component", "grpc").Warn("slow")
	if !strings.Contains(buf.String(), `component="grpc"`) {
		t.Errorf("With() fields missing: %s", buf.String())
	}
}

func TestNew(t *testing.T) {
	logger := New("test-service")
	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.name != "test-service" {
		t.Errorf("name = %v, want test-service", logger.name)
	}
}

func TestToFields(t *testing.T) {
	if fields := toFields(); fields != nil {
		t.Error("toFields() with no args should return nil")
	}

	fields := toFields("key1", "value1", "key2", 42)
	if fields["key1"] != "value1" {
		t.Errorf("fields[key1] = %v, want value1", fields["key1"])
	}
	if fields["key2"] != 42 {
		t.Errorf("fields[key2] = %v, want 42", fields["key2"])
	}

	fields = toFields(123, "value")
	if len(fields) != 0 {
		t.Errorf("Non-string key should be skipped, got %v fields", len(fields))
	}
}
