package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "site:\n  whatsappNumber: \"919999999999\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Listen != ":8000" || cfg.Cache.Driver != "memory" || cfg.Store.Driver != "firestore" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Cache.TTLDuration() != 5*time.Minute {
		t.Fatalf("expected 5m ttl, got %v", cfg.Cache.TTLDuration())
	}
	if cfg.Cache.RefreshDuration() != 0 {
		t.Fatalf("refresh must be disabled by default")
	}
	if cfg.Site.WhatsAppNumber != "919999999999" || cfg.Site.SiteName == "" {
		t.Fatalf("unexpected site %+v", cfg.Site)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"redis without addr":  "cache:\n  driver: redis\n",
		"bad ttl":             "cache:\n  ttl: soon\n",
		"unknown store":       "store:\n  driver: mongo\n",
		"watch without seed":  "store:\n  driver: memory\n  watch: true\n",
		"trace endpoint":      "server:\n  enableTrace: true\n",
		"half admin":          "admin:\n  username: admin\n",
		"negative refreshing": "cache:\n  refreshInterval: -1m\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"VITE_FIREBASE_PROJECT_ID": "vite-project",
		"FIREBASE_API_KEY":         "key",
		"VITE_FIREBASE_API_KEY":    "ignored",
		"FIRESTORE_EMULATOR_HOST":  "localhost:8080",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	var cfg Config
	cfg.applyEnv(lookup)
	if cfg.Firebase.ProjectID != "vite-project" {
		t.Fatalf("expected VITE_ fallback, got %q", cfg.Firebase.ProjectID)
	}
	if cfg.Firebase.APIKey != "key" {
		t.Fatalf("plain name must win over VITE_ name, got %q", cfg.Firebase.APIKey)
	}
	if cfg.Firebase.EmulatorHost != "localhost:8080" {
		t.Fatalf("unexpected emulator host %q", cfg.Firebase.EmulatorHost)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
