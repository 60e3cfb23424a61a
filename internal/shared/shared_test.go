package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestShared(t *testing.T) {
	t.Run("NewLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		if logger == nil {
			t.Fatal("expected logger to be created")
		}

		logger.Info("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("NewLogger Defaults To Stderr", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected logger with nil writer")
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		a := GenerateID()
		b := GenerateID()

		if a == "" || b == "" {
			t.Fatal("expected non-empty IDs")
		}
		if a == b {
			t.Error("expected unique IDs")
		}
		if len(a) != 36 {
			t.Errorf("expected UUID format, got %q", a)
		}
	})

	t.Run("GenerateState", func(t *testing.T) {
		a, err := GenerateState()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		b, err := GenerateState()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(a) != 32 {
			t.Errorf("expected 32 hex chars, got %d", len(a))
		}
		if a == b {
			t.Error("expected unique state tokens")
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		data := map[string]string{"mood": "happy"}

		compact, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Contains(string(compact), "\n") {
			t.Error("compact output should not contain newlines")
		}

		pretty, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(pretty), "  ") {
			t.Error("pretty output should be indented")
		}
	})
}
