package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Output != DefaultOutputFormat {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutputFormat)
	}
	if !cfg.Rules.Pycache || !cfg.Rules.Pyc || !cfg.Rules.Venv ||
		!cfg.Rules.Jupyter || !cfg.Rules.TempFiles || !cfg.Rules.BuildDirs {
		t.Errorf("all rules should default to enabled: %+v", cfg.Rules)
	}
	if cfg.Rules.VenvDays != DefaultVenvDays {
		t.Errorf("VenvDays = %d, want %d", cfg.Rules.VenvDays, DefaultVenvDays)
	}
	if !cfg.History.Enabled {
		t.Error("history should default to enabled")
	}
	if cfg.History.RetentionDays != DefaultHistoryRetentionDays {
		t.Errorf("RetentionDays = %d, want %d", cfg.History.RetentionDays, DefaultHistoryRetentionDays)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if len(cfg.Roots) == 0 {
		t.Error("default roots should not be empty")
	}
}

func TestLoadFromFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "pybroom")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `
output: json
rules:
  pyc: false
  venv_days: 60
history:
  enabled: false
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Output != "json" {
		t.Errorf("Output = %q, want %q", cfg.Output, "json")
	}
	if cfg.Rules.Pyc {
		t.Error("rules.pyc should be disabled by config file")
	}
	if !cfg.Rules.Pycache {
		t.Error("unspecified rules should keep their defaults")
	}
	if cfg.Rules.VenvDays != 60 {
		t.Errorf("VenvDays = %d, want 60", cfg.Rules.VenvDays)
	}
	if cfg.History.Enabled {
		t.Error("history should be disabled by config file")
	}
}

func TestLoadClampsVenvDays(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "pybroom")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "rules:\n  venv_days: 9999\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Rules.VenvDays != 365 {
		t.Errorf("VenvDays = %d, want clamped to 365", cfg.Rules.VenvDays)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "pybroom")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestWriteDefault(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() failed: %v", err)
	}

	path := filepath.Join(configHome, "pybroom", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "venv_days") {
		t.Error("default config should document venv_days")
	}

	// Existing files are never overwritten.
	if err := os.WriteFile(path, []byte("output: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() failed on second call: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "output: json\n" {
		t.Error("WriteDefault must not overwrite an existing config file")
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() failed: %v", err)
	}
	if dir != filepath.Join("/custom/config", "pybroom") {
		t.Errorf("ConfigDir() = %q", dir)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	got, err := ExpandPath("~/projects")
	if err != nil {
		t.Fatalf("ExpandPath() failed: %v", err)
	}
	if got != filepath.Join(home, "projects") {
		t.Errorf("ExpandPath(~/projects) = %q", got)
	}

	got, err = ExpandPath("/absolute/path")
	if err != nil {
		t.Fatalf("ExpandPath() failed: %v", err)
	}
	if got != "/absolute/path" {
		t.Errorf("absolute paths must pass through, got %q", got)
	}
}

func TestDefaultRoots(t *testing.T) {
	roots := DefaultRoots()
	if len(roots) < 2 {
		t.Fatalf("expected home plus temp dir, got %v", roots)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}
	if roots[0] != home {
		t.Errorf("first root = %q, want home %q", roots[0], home)
	}
}
