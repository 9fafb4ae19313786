package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"ERROR", LevelError, false},
		{"bogus", LevelInfo, true},
		{"", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelDebug.String() != "debug" || LevelError.String() != "error" {
		t.Error("level string round trip failed")
	}
	if Level(99).String() != "unknown" {
		t.Error("out of range level should stringify as unknown")
	}
}

func TestInitAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	if err := Init(Config{Level: "debug", Path: path}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer Close()

	logger := Get("scanner")
	logger.Info("scan started", "roots", 2)
	logger.Debug("detail")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "scan started") {
		t.Error("info message missing from log file")
	}
	if !strings.Contains(content, "scanner") {
		t.Error("component prefix missing from log file")
	}
	if !strings.Contains(content, "detail") {
		t.Error("debug message missing at debug level")
	}
}

func TestComponentLevelOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	cfg := Config{
		Level:      "info",
		Path:       path,
		Components: map[string]string{"scanner": "error"},
	}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer Close()

	Get("scanner").Info("quiet component")
	Get("cleaner").Info("default component")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "quiet component") {
		t.Error("scanner info should be suppressed at error level")
	}
	if !strings.Contains(content, "default component") {
		t.Error("cleaner info should pass at default info level")
	}
}

func TestInitInvalidLevel(t *testing.T) {
	if err := Init(Config{Level: "bogus"}); err == nil {
		t.Error("expected error for invalid level")
		Close()
	}
}

func TestGetBeforeInit(t *testing.T) {
	if err := Close(); err != nil {
		t.Fatal(err)
	}

	// Must not panic; output goes to io.Discard.
	Get("orphan").Info("dropped")
}

func TestSubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	if err := Init(Config{Level: "info", Path: path, TUIMode: true}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer Close()

	ch := Subscribe()
	Get("tui").Warn("panel opened")

	select {
	case entry := <-ch:
		if entry.Component != "tui" {
			t.Errorf("entry component = %q, want %q", entry.Component, "tui")
		}
		if entry.Level != LevelWarn {
			t.Errorf("entry level = %v, want warn", entry.Level)
		}
		if entry.Message != "panel opened" {
			t.Errorf("entry message = %q", entry.Message)
		}
	case <-time.After(time.Second):
		t.Fatal("no entry delivered to subscriber")
	}

	Unsubscribe(ch)
	Get("tui").Warn("after unsubscribe")

	select {
	case entry, ok := <-ch:
		if ok {
			t.Errorf("unexpected entry after unsubscribe: %+v", entry)
		}
	default:
	}
}
