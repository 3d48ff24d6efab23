package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTraceWritesJSONWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trace.log")
	Configure(path)
	t.Cleanup(func() {
		SetTraceEnabled(false)
		Configure("")
	})

	Trace("ignored", nil)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no log file while tracing disabled, got %v", err)
	}

	SetTraceEnabled(true)
	Trace("worker.call", map[string]interface{}{"seq": 1})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("decode trace entry: %v", err)
	}
	if entry.Event != "worker.call" {
		t.Fatalf("expected worker.call event, got %q", entry.Event)
	}
	if entry.Payload["seq"] != float64(1) {
		t.Fatalf("unexpected payload %#v", entry.Payload)
	}
}

func TestErrorAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")
	Configure(path)
	t.Cleanup(func() { Configure("") })

	Error(nil)
	Errorf("list workflows %s: %v", "default", errors.New("deadline exceeded"))
	Error(errors.New("second"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "list workflows default: deadline exceeded") || !strings.Contains(text, "second") {
		t.Fatalf("unexpected log contents %q", text)
	}
	if strings.Count(text, "\n") != 2 {
		t.Fatalf("expected two lines, got %q", text)
	}
}
