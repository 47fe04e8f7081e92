package shared

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("expected log output to contain message, got %q", output)
	}
	if !strings.Contains(output, "key") {
		t.Errorf("expected log output to contain key, got %q", output)
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "run", "abc123")

	logger.Info("scoped")

	if !strings.Contains(buf.String(), "abc123") {
		t.Errorf("expected child logger to carry the run field, got %q", buf.String())
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	logger.Info("to file")

	content := mustRead(t, path)
	if !strings.Contains(content, "to file") {
		t.Errorf("expected log file to contain the message, got %q", content)
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected a valid UUID, got %q: %v", id, err)
	}

	if GenerateID() == id {
		t.Error("expected IDs to be unique")
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"answer": 42}

	t.Run("compact", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(out) != `{"answer":42}` {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(out), "\n  ") {
			t.Errorf("expected indented output, got %s", out)
		}
	})

	t.Run("unmarshalable value", func(t *testing.T) {
		if _, err := MarshalJSON(make(chan int), false); err == nil {
			t.Error("expected error for unmarshalable value")
		}
	})
}

func TestSentinelErrors(t *testing.T) {
	wrapped := errors.Join(ErrNotAuthenticated)
	if !errors.Is(wrapped, ErrNotAuthenticated) {
		t.Error("expected wrapped sentinel to match with errors.Is")
	}
}
