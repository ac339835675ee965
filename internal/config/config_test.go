package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func env(m map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate, got %v", err)
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, env(map[string]string{
		"PORT":                   "9090",
		"LOG_LEVEL":              "debug",
		"STORE_DRIVER":           "SQLite",
		"SQLITE_PATH":            "/tmp/m.db",
		"CORS_ALLOWED_ORIGINS":   "http://a.test, http://b.test,",
		"CORS_ALLOW_CREDENTIALS": "true",
		"RATE_LIMIT_RPS":         "2.5",
		"REMINDERS_ENABLED":      "false",
		"ADHERENCE_WINDOW_DAYS":  "7",
		"DEFAULT_USER_ID":        "",
		"TIMEZONE":               "UTC",
	}))
	if err != nil {
		t.Fatalf("applyEnv error: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" || cfg.Log.Level != "debug" || cfg.Store.Driver != "sqlite" {
		t.Fatalf("unexpected cfg %#v", cfg)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || !cfg.CORS.AllowCredentials {
		t.Fatalf("unexpected cors %#v", cfg.CORS)
	}
	if cfg.RateLimit.RPS != 2.5 || cfg.Reminders.Enabled || cfg.Adherence.WindowDays != 7 {
		t.Fatalf("unexpected cfg %#v", cfg)
	}
	if cfg.Auth.DefaultUserID != "" {
		t.Fatalf("expected empty DEFAULT_USER_ID to clear the default, got %q", cfg.Auth.DefaultUserID)
	}
	if loc, err := cfg.Location(); err != nil || loc != time.UTC {
		t.Fatalf("expected UTC, got %v err=%v", loc, err)
	}
}

func TestApplyEnv_BadValues(t *testing.T) {
	for _, k := range []string{"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REMINDERS_ENABLED", "ADHERENCE_WINDOW_DAYS", "CORS_ALLOW_CREDENTIALS"} {
		cfg := Default()
		if err := applyEnv(&cfg, env(map[string]string{k: "nope"})); err == nil || !strings.Contains(err.Error(), k) {
			t.Fatalf("expected error naming %s, got %v", k, err)
		}
	}
}

func TestDecodeYAML(t *testing.T) {
	cfg := Default()
	data := []byte(`
http:
  addr: ":7000"
  shutdown_timeout: 3s
store:
  driver: remote
  remote:
    base_url: https://api.example.com/api
    owners: ["1", "2"]
reminders:
  spec: "@every 5m"
`)
	if err := decodeYAML(data, &cfg); err != nil {
		t.Fatalf("decodeYAML error: %v", err)
	}
	if cfg.HTTP.Addr != ":7000" || cfg.HTTP.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected http %#v", cfg.HTTP)
	}
	if cfg.Store.Remote.BaseURL == "" || len(cfg.Store.Remote.Owners) != 2 {
		t.Fatalf("unexpected store %#v", cfg.Store)
	}
	// lo que no viene en el archivo conserva el default
	if cfg.Adherence.WindowDays != 30 || cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Fatalf("expected defaults kept, got %#v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	if err := decodeYAML([]byte("http:\n  adress: x\n"), &cfg); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if err := decodeYAML(nil, &cfg); err != nil {
		t.Fatalf("empty file must keep defaults, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"driver":      func(c *Config) { c.Store.Driver = "mongo" },
		"pg dsn":      func(c *Config) { c.Store.Driver = "postgres" },
		"remote url":  func(c *Config) { c.Store.Driver = "remote" },
		"window":      func(c *Config) { c.Adherence.WindowDays = 0 },
		"timezone":    func(c *Config) { c.Timezone = "Mars/Olympus" },
		"cron":        func(c *Config) { c.Reminders.Spec = "every minute" },
		"rps":         func(c *Config) { c.RateLimit.RPS = -1 },
	}
	for name, mut := range cases {
		cfg := Default()
		mut(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoad_FromFile(t *testing.T) {
	for _, k := range []string{"CONFIG_FILE", "STORE_DRIVER", "PORT", "HTTP_ADDR", "ADHERENCE_WINDOW_DAYS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	path := filepath.Join(t.TempDir(), "meditrack.yaml")
	if err := os.WriteFile(path, []byte("adherence:\n  window_days: 14\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ADHERENCE_WINDOW_DAYS", "21")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Adherence.WindowDays != 21 {
		t.Fatalf("expected env to win over file, got %d", cfg.Adherence.WindowDays)
	}
}
