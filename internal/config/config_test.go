package config

import (
	"testing"
	"time"
)

// setBaseEnv sets the minimum environment for a valid release-mode load.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "unit-test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port default = %q", cfg.Port)
	}
	if cfg.DBDriver != "sqlite" || cfg.DBPath != "portal.db" {
		t.Fatalf("DB defaults = %q %q", cfg.DBDriver, cfg.DBPath)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("TokenTTL default = %v", cfg.Auth.TokenTTL)
	}
	if cfg.APIBasePath != "/api" {
		t.Fatalf("APIBasePath default = %q", cfg.APIBasePath)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("GinMode default = %q", cfg.GinMode)
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DB_DRIVER=postgres without DB_DSN")
	}

	t.Setenv("DB_DSN", "host=localhost user=portal dbname=portal")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("DBDriver = %q", cfg.DBDriver)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown DB_DRIVER")
	}
}

func TestLoad_RequiresJWTSecretInRelease(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET missing in release mode")
	}

	t.Setenv("GIN_MODE", "test")
	if _, err := Load(); err != nil {
		t.Fatalf("test mode should not require JWT_SECRET: %v", err)
	}
}

func TestLoad_NormalizesWarnLevelAndBasePath(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("API_BASE_PATH", "api/v2/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("APIBasePath = %q", cfg.APIBasePath)
	}
}

func TestLoad_ValidatesRateLimits(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RATE_BURST", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for RATE_BURST < 1")
	}
}
