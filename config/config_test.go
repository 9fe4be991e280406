package config

import (
	"strings"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := fromEnv(envFrom(map[string]string{
		"DATABASE_URL":   "postgres://localhost/clubs",
		"JWT_SECRET_KEY": "secret",
	}))
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if cfg.StoreBackend != StorePostgres || cfg.ServerPort != 8080 || cfg.SchedulerInterval != 30*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.R2.Enabled() {
		t.Error("R2 should be disabled without settings")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := fromEnv(envFrom(map[string]string{
		"STORE_BACKEND":        " Memory ",
		"JWT_SECRET_KEY":       "secret",
		"SERVER_PORT":          "9000",
		"SCHEDULER_INTERVAL":   "2m",
		"CORS_ALLOWED_ORIGINS": "https://a.example, ,https://b.example",
		"R2_BUCKET_NAME":       "logos",
	}))
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if cfg.StoreBackend != StoreMemory || cfg.ServerPort != 9000 || cfg.SchedulerInterval != 2*time.Minute {
		t.Errorf("unexpected config %+v", cfg)
	}
	if got := strings.Join(cfg.CORSAllowedOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Errorf("origins = %s", got)
	}
	if !cfg.R2.Enabled() {
		t.Error("R2 should be enabled when a setting is present")
	}
}

func TestFromEnv_Errors(t *testing.T) {
	base := func() map[string]string {
		return map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET_KEY": "secret"}
	}
	tests := []struct {
		name string
		edit func(m map[string]string)
		want string
	}{
		{"missing database url", func(m map[string]string) { delete(m, "DATABASE_URL") }, "DATABASE_URL"},
		{"missing jwt secret", func(m map[string]string) { delete(m, "JWT_SECRET_KEY") }, "JWT_SECRET_KEY"},
		{"unknown backend", func(m map[string]string) { m["STORE_BACKEND"] = "redis" }, "STORE_BACKEND"},
		{"port not a number", func(m map[string]string) { m["SERVER_PORT"] = "http" }, "SERVER_PORT"},
		{"port out of range", func(m map[string]string) { m["SERVER_PORT"] = "70000" }, "SERVER_PORT"},
		{"bad interval", func(m map[string]string) { m["SCHEDULER_INTERVAL"] = "soon" }, "SCHEDULER_INTERVAL"},
		{"interval too short", func(m map[string]string) { m["SCHEDULER_INTERVAL"] = "10ms" }, "SCHEDULER_INTERVAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := base()
			tt.edit(env)
			_, err := fromEnv(envFrom(env))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}

	env := base()
	delete(env, "DATABASE_URL")
	env["STORE_BACKEND"] = "memory"
	if _, err := fromEnv(envFrom(env)); err != nil {
		t.Errorf("memory backend must not need DATABASE_URL: %v", err)
	}
}
