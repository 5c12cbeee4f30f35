package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Store.Driver != DriverRedis {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, DriverRedis)
	}
	if cfg.Store.MaxAttempts != 5 {
		t.Errorf("Store.MaxAttempts = %d, want 5", cfg.Store.MaxAttempts)
	}
	if cfg.Store.Timeout != 5*time.Second {
		t.Errorf("Store.Timeout = %v, want 5s", cfg.Store.Timeout)
	}
	if cfg.Redis.Port != "6379" {
		t.Errorf("Redis.Port = %q, want 6379", cfg.Redis.Port)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "https://ballo.app,https://admin.ballo.app")
	t.Setenv("ADMIN_EMAILS", "root@ballo.app")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("STORE_MAX_ATTEMPTS", "3")
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	wantOrigins := []string{"https://ballo.app", "https://admin.ballo.app"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, wantOrigins) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, wantOrigins)
	}
	if !reflect.DeepEqual(cfg.AdminEmails, []string{"root@ballo.app"}) {
		t.Errorf("AdminEmails = %v", cfg.AdminEmails)
	}
	if cfg.Store.Driver != DriverPostgres || cfg.Store.MaxAttempts != 3 || cfg.Store.Timeout != 750*time.Millisecond {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Errorf("Postgres.Host = %q", cfg.Postgres.Host)
	}
	if cfg.Redis.DB != 2 {
		t.Errorf("Redis.DB = %d, want 2", cfg.Redis.DB)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "mongo")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for unknown driver")
	}
}

func TestLoadRejectsZeroAttempts(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_MAX_ATTEMPTS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for zero attempts")
	}
}
