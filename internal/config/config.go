// Package config arma la configuración: defaults, archivo YAML opcional,
// .env y variables de entorno (en ese orden de precedencia creciente).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"meditrack/internal/reminders"

	"github.com/joho/godotenv"
	yaml "go.yaml.in/yaml/v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Reminders RemindersConfig `yaml:"reminders"`
	Adherence AdherenceConfig `yaml:"adherence"`
	Timezone  string          `yaml:"timezone"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

type StoreConfig struct {
	Driver     string       `yaml:"driver"` // memory | postgres | sqlite | remote
	DSN        string       `yaml:"dsn"`
	SQLitePath string       `yaml:"sqlite_path"`
	Remote     RemoteConfig `yaml:"remote"`
}

type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
	Owners  []string      `yaml:"owners"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	DefaultUserID string `yaml:"default_user_id"`
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type RemindersConfig struct {
	Enabled bool          `yaml:"enabled"`
	Spec    string        `yaml:"spec"`
	Timeout time.Duration `yaml:"timeout"`
}

type AdherenceConfig struct {
	WindowDays int `yaml:"window_days"`
}

var knownDrivers = map[string]bool{"memory": true, "postgres": true, "sqlite": true, "remote": true}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log:   LogConfig{Level: "info", Format: "text", App: "meditrack"},
		Store: StoreConfig{Driver: "memory", SQLitePath: "data/meditrack.db", Remote: RemoteConfig{Timeout: 10 * time.Second}},
		// la app original siempre operaba como el usuario 1
		Auth:      AuthConfig{DefaultUserID: "1"},
		RateLimit: RateLimitConfig{RPS: 20, Burst: 40},
		Reminders: RemindersConfig{Enabled: true, Spec: "* * * * *", Timeout: 30 * time.Second},
		Adherence: AdherenceConfig{WindowDays: 30},
		Timezone:  "Local",
	}
}

// Load: .env (best-effort) -> defaults -> YAML (si path != "") -> env.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeYAML rechaza campos desconocidos. Un archivo vacío deja los defaults.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("PORT"); ok {
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v, ok := get("HTTP_ADDR"); ok {
		cfg.HTTP.Addr = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	if v, ok := get("APP_NAME"); ok {
		cfg.Log.App = v
	}
	if v, ok := get("STORE_DRIVER"); ok {
		cfg.Store.Driver = strings.ToLower(v)
	}
	if v, ok := get("DB_DSN"); ok {
		cfg.Store.DSN = v
	}
	if v, ok := get("SQLITE_PATH"); ok {
		cfg.Store.SQLitePath = v
	}
	if v, ok := get("REMOTE_BASE_URL"); ok {
		cfg.Store.Remote.BaseURL = v
	}
	if v, ok := get("REMOTE_TOKEN"); ok {
		cfg.Store.Remote.Token = v
	}
	if v, ok := get("REMOTE_OWNERS"); ok {
		cfg.Store.Remote.Owners = splitList(v)
	}
	if v, ok := get("JWT_SECRET"); ok {
		cfg.Auth.JWTSecret = v
	}
	// DEFAULT_USER_ID="" desactiva el usuario por defecto
	if v, ok := lookup("DEFAULT_USER_ID"); ok {
		cfg.Auth.DefaultUserID = strings.TrimSpace(v)
	}
	if v, ok := get("CORS_ALLOWED_ORIGINS"); ok {
		cfg.CORS.AllowedOrigins = splitList(v)
	}
	if v, ok := get("CORS_ALLOW_CREDENTIALS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CORS_ALLOW_CREDENTIALS: %w", err)
		}
		cfg.CORS.AllowCredentials = b
	}
	if v, ok := get("RATE_LIMIT_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimit.RPS = f
	}
	if v, ok := get("RATE_LIMIT_BURST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimit.Burst = n
	}
	if v, ok := get("REMINDERS_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REMINDERS_ENABLED: %w", err)
		}
		cfg.Reminders.Enabled = b
	}
	if v, ok := get("REMINDERS_SPEC"); ok {
		cfg.Reminders.Spec = v
	}
	if v, ok := get("TIMEZONE"); ok {
		cfg.Timezone = v
	}
	if v, ok := get("ADHERENCE_WINDOW_DAYS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ADHERENCE_WINDOW_DAYS: %w", err)
		}
		cfg.Adherence.WindowDays = n
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if !knownDrivers[c.Store.Driver] {
		errs = append(errs, fmt.Errorf("store.driver %q is not one of memory|postgres|sqlite|remote", c.Store.Driver))
	}
	if c.Store.Driver == "postgres" && strings.TrimSpace(c.Store.DSN) == "" {
		errs = append(errs, errors.New("store.dsn is required for postgres"))
	}
	if c.Store.Driver == "sqlite" && strings.TrimSpace(c.Store.SQLitePath) == "" {
		errs = append(errs, errors.New("store.sqlite_path is required for sqlite"))
	}
	if c.Store.Driver == "remote" && strings.TrimSpace(c.Store.Remote.BaseURL) == "" {
		errs = append(errs, errors.New("store.remote.base_url is required for remote"))
	}
	if c.Adherence.WindowDays <= 0 || c.Adherence.WindowDays > 366 {
		errs = append(errs, fmt.Errorf("adherence.window_days must be in 1..366, got %d", c.Adherence.WindowDays))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("rate_limit.rps must not be negative"))
	}
	if c.Reminders.Enabled {
		if err := reminders.ValidateSpec(c.Reminders.Spec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Location resuelve Timezone ("" o "Local" => zona del proceso).
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", tz, err)
	}
	return loc, nil
}
