package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{" info ", InfoLevel},
		{"WARNING", WarnLevel},
		{"warn", WarnLevel},
		{"Error", ErrorLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if got := Level(42).String(); got != "UNKNOWN" {
		t.Errorf("Level(42).String() = %q, want UNKNOWN", got)
	}
	if got := WarnLevel.String(); got != "WARN" {
		t.Errorf("WarnLevel.String() = %q, want WARN", got)
	}
}

func TestDomainFields(t *testing.T) {
	if f := MarkerID("sp"); f.Key != "marker_id" || f.Value != "sp" {
		t.Errorf("MarkerID() = %+v", f)
	}
	if f := Seq(7); f.Key != "seq" || f.Value != uint64(7) {
		t.Errorf("Seq() = %+v", f)
	}
	if f := Latency(1500 * time.Millisecond); f.Value != "1.5s" {
		t.Errorf("Latency() = %+v", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
	if f := Error(errors.New("boom")); f.Value != "boom" {
		t.Errorf("Error() = %+v", f)
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("markers served", Region("southeast"), Count(2))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "markers served" {
		t.Errorf("Message = %v", entry.Message)
	}
	if entry.Fields["region"] != "southeast" {
		t.Errorf("Fields[region] = %v", entry.Fields["region"])
	}
	if entry.Fields["count"] != float64(2) {
		t.Errorf("Fields[count] = %v", entry.Fields["count"])
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}
}

func TestJSONLogger_WithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(Component("client"))

	logger.SetLevel(ErrorLevel)
	child.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("child logger ignored parent level change: %s", buf.String())
	}

	child.Error("load failed", Seq(3))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["component"] != "client" {
		t.Errorf("component field = %v, want client", entry.Fields["component"])
	}
	if entry.Fields["seq"] != float64(3) {
		t.Errorf("seq field = %v, want 3", entry.Fields["seq"])
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, InfoLevel).Info("plain")

	if strings.Contains(buf.String(), "fields") {
		t.Errorf("expected fields to be omitted, got %s", buf.String())
	}
}

func TestJSONLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(Component("api"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			logger.Info("parent")
		}()
		go func() {
			defer wg.Done()
			child.Info("child")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Fatalf("expected 100 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	op := StartTimer(logger, "dataset loaded", Path("markers.json"))
	op.End(Count(12))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["latency"] == nil {
		t.Error("latency field missing")
	}
	if entry.Fields["path"] != "markers.json" || entry.Fields["count"] != float64(12) {
		t.Errorf("unexpected fields: %v", entry.Fields)
	}

	buf.Reset()
	op.EndError(errors.New("decode failed"))
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Level != "ERROR" || entry.Fields["error"] != "decode failed" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestJSONLogger_CallFieldsOverrideInherited(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel).With(State("idle"))
	logger.Info("transition", State("loading"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["state"] != "loading" {
		t.Errorf("state = %v, want loading", entry.Fields["state"])
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = NewNopLogger()
	l.Info("ignored")
	if l.With(Component("x")) == nil {
		t.Error("NopLogger.With returned nil")
	}
	if l.GetLevel() != InfoLevel {
		t.Errorf("NopLogger level = %v", l.GetLevel())
	}
}
