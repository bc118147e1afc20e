package config

import (
	"os"
	"path/filepath"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		EnvDB:             "/data/estoque.db",
		EnvAddr:           "127.0.0.1:9000",
		EnvLog:            "/var/log/almox.log",
		EnvRequireLogin:   "true",
		EnvBackupDir:      "/backups",
		EnvBackupSchedule: "0 3 * * *",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	want := Config{
		DBPath:         "/data/estoque.db",
		Addr:           "127.0.0.1:9000",
		LogPath:        "/var/log/almox.log",
		RequireLogin:   true,
		BackupDir:      "/backups",
		BackupSchedule: "0 3 * * *",
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestFromEnvInvalidBool(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{EnvRequireLogin: "maybe"}))
	if err == nil {
		t.Error("expected error for invalid boolean")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ALMOX_ADDR=:7070\nALMOX_DB=from-file.db\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// The process environment wins over the file.
	t.Setenv(EnvDB, "from-env.db")
	t.Setenv(EnvAddr, "")
	os.Unsetenv(EnvAddr)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("expected addr from file, got %q", cfg.Addr)
	}
	if cfg.DBPath != "from-env.db" {
		t.Errorf("expected db path from environment, got %q", cfg.DBPath)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("expected missing file to be ignored, got %v", err)
	}
}
