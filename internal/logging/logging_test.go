package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestComponentField(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewLogger(&buf), "editor")
	logger.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v (%q)", err, buf.String())
	}
	if entry["component"] != "editor" {
		t.Errorf("component = %v, want editor", entry["component"])
	}
	if entry["message"] != "hello" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestNewLoggerMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	logger := NewLogger(&a, &b)
	logger.Warn().Msg("both")

	if a.Len() == 0 || b.Len() == 0 {
		t.Errorf("expected both writers to receive output, got %d and %d bytes", a.Len(), b.Len())
	}
}
