package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTempConfig writes YAML content to a temp file and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeTempConfig(t, `
registry:
  base_url: "http://homeassistant.local:8123"
  token: "test-token"
  call_timeout: 5
database:
  path: "/tmp/rename-test.db"
naming:
  max_identifier_length: 200
  fallback_location: "main"
executor:
  max_attempts: 3
  backoff_initial: 100
  backoff_max: 2000
  scan_workers: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Registry.BaseURL != "http://homeassistant.local:8123" {
		t.Errorf("Registry.BaseURL = %q", cfg.Registry.BaseURL)
	}
	if cfg.Naming.MaxIdentifierLength != 200 {
		t.Errorf("Naming.MaxIdentifierLength = %d, want 200", cfg.Naming.MaxIdentifierLength)
	}
	if cfg.Executor.MaxAttempts != 3 {
		t.Errorf("Executor.MaxAttempts = %d, want 3", cfg.Executor.MaxAttempts)
	}
	// Defaults fill unset sections.
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_MissingToken(t *testing.T) {
	path := writeTempConfig(t, `
registry:
  base_url: "http://localhost:8123"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for missing registry token")
	}
	if !strings.Contains(err.Error(), "registry.token") {
		t.Errorf("error %q does not mention registry.token", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeTempConfig(t, `
registry:
  base_url: "http://localhost:8123"
  token: "file-token"
`)

	t.Setenv("GLRENAME_REGISTRY_TOKEN", "env-token")
	t.Setenv("GLRENAME_DATABASE_PATH", "/var/lib/rename.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Registry.Token != "env-token" {
		t.Errorf("Registry.Token = %q, want env-token", cfg.Registry.Token)
	}
	if cfg.Database.Path != "/var/lib/rename.db" {
		t.Errorf("Database.Path = %q, want /var/lib/rename.db", cfg.Database.Path)
	}
}

func TestValidate_ExecutorSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero max attempts",
			mutate:  func(c *Config) { c.Executor.MaxAttempts = 0 },
			wantErr: "executor.max_attempts",
		},
		{
			name:    "backoff max below initial",
			mutate:  func(c *Config) { c.Executor.BackoffInitial = 500; c.Executor.BackoffMax = 100 },
			wantErr: "backoff",
		},
		{
			name:    "zero scan workers",
			mutate:  func(c *Config) { c.Executor.ScanWorkers = 0 },
			wantErr: "scan_workers",
		},
		{
			name:    "identifier length too small",
			mutate:  func(c *Config) { c.Naming.MaxIdentifierLength = 4 },
			wantErr: "max_identifier_length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Registry.Token = "token"
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	content := `
areas:
  area-1: "Büro"
devices:
  dev-1: "Deckenlicht"
entities:
  ent-1: "fenster"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing overrides: %v", err)
	}

	ov, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("LoadOverrides() error: %v", err)
	}
	if ov.Areas["area-1"] != "Büro" {
		t.Errorf("Areas[area-1] = %q", ov.Areas["area-1"])
	}
	if ov.Devices["dev-1"] != "Deckenlicht" {
		t.Errorf("Devices[dev-1] = %q", ov.Devices["dev-1"])
	}
	if ov.Entities["ent-1"] != "fenster" {
		t.Errorf("Entities[ent-1] = %q", ov.Entities["ent-1"])
	}
}

func TestLoadOverrides_MissingFile(t *testing.T) {
	ov, err := LoadOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOverrides() error: %v", err)
	}
	if len(ov.Areas) != 0 || len(ov.Devices) != 0 || len(ov.Entities) != 0 {
		t.Error("expected empty snapshot for missing file")
	}
}
