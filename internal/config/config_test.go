package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("DB_PASSWORD", "test_password")
	os.Setenv("APP_PORT", "9090")
	os.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	defer func() {
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("APP_PORT")
		os.Unsetenv("RATE_LIMIT_WINDOW_SECONDS")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DBPassword != "test_password" {
		t.Errorf("DBPassword = %q, want %q", cfg.DBPassword, "test_password")
	}
	if cfg.AppPort != "9090" {
		t.Errorf("AppPort = %q, want %q", cfg.AppPort, "9090")
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("RateLimitWindow = %v, want %v", cfg.RateLimitWindow, 30*time.Second)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost default = %d, want 10", cfg.BcryptCost)
	}
}

func TestLoadConfig_MissingPassword(t *testing.T) {
	os.Unsetenv("DB_PASSWORD")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() without DB_PASSWORD succeeded, want error")
	}
}

func TestValidate_BcryptCost(t *testing.T) {
	cfg := &Config{DBPassword: "x", MediaRoot: "./media", BcryptCost: 3}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with cost 3 succeeded, want error")
	}

	cfg.BcryptCost = 32
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with cost 32 succeeded, want error")
	}

	cfg.BcryptCost = 12
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with cost 12 error = %v", err)
	}
}

func TestValidateProductionSecurity(t *testing.T) {
	cfg := &Config{
		AppEnv:     "production",
		DBSSLMode:  "disable",
		BcryptCost: 12,
	}
	if err := cfg.ValidateProductionSecurity(); err == nil {
		t.Error("sslmode=disable in production succeeded, want error")
	}

	cfg.DBSSLMode = "require"
	cfg.BcryptCost = 8
	if err := cfg.ValidateProductionSecurity(); err == nil {
		t.Error("bcrypt cost 8 in production succeeded, want error")
	}

	cfg.BcryptCost = 12
	if err := cfg.ValidateProductionSecurity(); err != nil {
		t.Errorf("ValidateProductionSecurity() error = %v", err)
	}

	// Development skips the production checks entirely
	dev := &Config{AppEnv: "development", DBSSLMode: "disable"}
	if err := dev.ValidateProductionSecurity(); err != nil {
		t.Errorf("development ValidateProductionSecurity() error = %v", err)
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "waylo",
		DBPassword: "secret",
		DBName:     "waylo_db",
		DBSSLMode:  "disable",
	}

	dsn := cfg.GetDSN()
	for _, part := range []string{"host=localhost", "port=5432", "user=waylo", "dbname=waylo_db", "sslmode=disable"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("GetDSN() missing %q: %s", part, dsn)
		}
	}
}
