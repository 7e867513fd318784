package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger(nil)
	if logger == nil {
		t.Fatal("NewLogger(nil) returned nil")
	}

	var buf bytes.Buffer
	logger = NewLogger(&Config{Level: LevelDebug, Output: &buf})
	logger.Debug("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected output to contain message, got: %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Output: &buf})

	logger.Info("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected Info to be filtered at LevelWarn, got: %s", buf.String())
	}

	logger.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("expected Warn output, got: %s", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	deviceLogger := logger.WithFields(Fields{"device_id": 42})
	deviceLogger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "device_id=42") {
		t.Errorf("expected device_id=42 in output, got: %s", output)
	}

	buf.Reset()
	pathLogger := deviceLogger.WithFields(Fields{"path": "/dev/input/event3"})
	pathLogger.Info("second message")

	output = buf.String()
	if !strings.Contains(output, "device_id=42") {
		t.Errorf("expected inherited device_id=42 in output, got: %s", output)
	}
	if !strings.Contains(output, "path=/dev/input/event3") {
		t.Errorf("expected path field in output, got: %s", output)
	}
}

func TestGlobalLoggerFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewLogger(&Config{Level: LevelDebug, Output: &buf}))

	Debug("debug message", "key", "value")
	output := buf.String()
	if !strings.Contains(output, "debug message") {
		t.Errorf("expected debug message, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected key=value, got: %s", output)
	}

	buf.Reset()
	Error("error message")
	output = buf.String()
	if !strings.Contains(output, "error message") {
		t.Errorf("expected error message, got: %s", output)
	}
}
