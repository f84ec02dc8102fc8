package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf})

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown %d", 1)
	l.Error("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-level message written: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 1") || !strings.Contains(out, "[ERROR] shown 2") {
		t.Errorf("missing messages: %q", out)
	}
}

func TestFieldsAreSortedAndShared(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: LevelDebug, Output: &buf, Prefix: "kl"})
	l := base.WithComponent("reader").WithField("a", 1)

	l.Info("bound")
	if !strings.Contains(buf.String(), "kl: bound {a=1, component=reader}") {
		t.Errorf("unexpected line: %q", buf.String())
	}

	buf.Reset()
	base.Info("plain")
	if strings.Contains(buf.String(), "component") {
		t.Errorf("child fields leaked into parent: %q", buf.String())
	}

	var other bytes.Buffer
	base.SetOutput(&other)
	l.Info("redirected")
	if !strings.Contains(other.String(), "redirected") {
		t.Errorf("derived logger did not follow SetOutput")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Enabled(LevelError) {
		t.Error("discard logger should not be enabled")
	}
	l.Error("nothing")
}

func TestOpenWritesSessionID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keyline.log")
	l, closer, err := Open(path, LevelInfo)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "keyline: hello") || !strings.Contains(line, "session=") {
		t.Errorf("unexpected log line: %q", line)
	}
}

func TestOpenEmptyPathDiscards(t *testing.T) {
	l, closer, err := Open("", LevelDebug)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if l.Enabled(LevelError) {
		t.Error("expected discarding logger")
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
