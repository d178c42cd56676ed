package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/pong?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("STATS_CACHE_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	for _, k := range []string{"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.ServerPort)
	}
	if cfg.StatsCacheTTL != 5*time.Minute {
		t.Fatalf("expected default ttl 5m, got %s", cfg.StatsCacheTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.R2.Enabled() {
		t.Fatalf("R2 must be disabled without settings")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"missing jwt", "JWT_SECRET_KEY", "", "JWT_SECRET_KEY"},
		{"bad port", "SERVER_PORT", "70000", "SERVER_PORT"},
		{"bad driver", "DB_DRIVER", "mysql", "DB_DRIVER"},
		{"bad ttl", "STATS_CACHE_TTL", "soon", "STATS_CACHE_TTL"},
		{"partial r2", "R2_BUCKET_NAME", "bucket", "R2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %s", err, tc.want)
			}
		})
	}
}

func TestLoadSQLiteNeedsNoDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PATH", "/tmp/pong-test.db")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/pong-test.db" {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
}
