package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret-key")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.JWT.Secret != "test-jwt-secret-key" {
		t.Errorf("JWT.Secret = %q, want %q", cfg.JWT.Secret, "test-jwt-secret-key")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.OTP.TTL != 10*time.Minute {
		t.Errorf("OTP.TTL = %v, want 10m", cfg.OTP.TTL)
	}
	if cfg.JWT.TTL != 720*time.Hour {
		t.Errorf("JWT.TTL = %v, want 720h", cfg.JWT.TTL)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("Redis.Addr = %q, want empty by default", cfg.Redis.Addr)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing JWT_SECRET, got nil")
	}
}

func TestLoad_InvalidDBPort(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("DB_PORT", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid DB_PORT, got nil")
	}
}

func TestLoad_InvalidDurations(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"JWT_TTL", "forever"},
		{"JWT_TTL", "-1h"},
		{"OTP_TTL", "ten minutes"},
		{"OTP_TTL", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			setRequiredEnvVars(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s=%q, got nil", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_TLSValidation(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("TLS_ENABLED", "true")
	t.Setenv("TLS_CERT_PATH", "")
	t.Setenv("TLS_KEY_PATH", "")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for TLS enabled without cert path, got nil")
	}
}

func TestLoad_TLSValidation_MissingKeyPath(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("TLS_ENABLED", "true")
	t.Setenv("TLS_CERT_PATH", "/path/to/cert")
	t.Setenv("TLS_KEY_PATH", "")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for TLS enabled without key path, got nil")
	}
}

func TestLoad_AllowedHosts(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ALLOWED_HOSTS", "example.com, api.example.com, localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Server.AllowedHosts) != 3 {
		t.Errorf("AllowedHosts length = %d, want 3", len(cfg.Server.AllowedHosts))
	}
}

func TestLoad_LogRedactionFollowsMode(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("LOG_MODE", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.Log.Redact {
		t.Error("Log.Redact should default to true in production mode")
	}

	t.Setenv("LOG_REDACTION_ENABLED", "false")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Log.Redact {
		t.Error("LOG_REDACTION_ENABLED=false should override the mode default")
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		value    string
		defVal   bool
		expected bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"invalid", true, true},   // returns default
		{"invalid", false, false}, // returns default
		{"", true, true},          // empty returns default
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			key := "TEST_BOOL_ENV"
			if tt.value == "" {
				os.Unsetenv(key)
			} else {
				t.Setenv(key, tt.value)
			}

			got := getBoolEnv(key, tt.defVal)
			if got != tt.expected {
				t.Errorf("getBoolEnv(%q, %v) = %v, want %v", tt.value, tt.defVal, got, tt.expected)
			}
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	got := cfg.ConnectionString()
	if got != expected {
		t.Errorf("ConnectionString() = %q, want %q", got, expected)
	}
}

func TestLoad_SchedulerDefaults(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SCHEDULER_TIMES", "03:00, 15:30,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if !cfg.Scheduler.Enabled {
		t.Error("Scheduler.Enabled = false, want true by default")
	}
	if len(cfg.Scheduler.ScheduleTimes) != 2 || cfg.Scheduler.ScheduleTimes[1] != "15:30" {
		t.Errorf("Scheduler.ScheduleTimes = %v, want [03:00 15:30]", cfg.Scheduler.ScheduleTimes)
	}
	if cfg.Scheduler.WorkerCount != 2 {
		t.Errorf("Scheduler.WorkerCount = %d, want 2", cfg.Scheduler.WorkerCount)
	}
}

func TestLoad_InvalidSchedulerWorkers(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SCHEDULER_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for zero SCHEDULER_WORKERS, got nil")
	}
}

func TestLoadStore_WithoutJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("LOG_MODE", "production")

	cfg, err := LoadStore()
	if err != nil {
		t.Fatalf("LoadStore() error = %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db.internal")
	}
	if !cfg.Log.Redact {
		t.Error("Log.Redact = false, want true in production")
	}

	t.Setenv("DB_PORT", "nope")
	if _, err := LoadStore(); err == nil {
		t.Error("LoadStore() expected error for invalid DB_PORT")
	}
}
