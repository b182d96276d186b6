package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "SERVER_PORT")
	unsetEnvWithCleanup(t, "PORT")
	unsetEnvWithCleanup(t, "SESSION_TTL_MINUTES")
	unsetEnvWithCleanup(t, "REDIS_REVOKED_PREFIX")
	unsetEnvWithCleanup(t, "CORS_ALLOWED_ORIGINS")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.SessionTTLMinutes != 60 {
		t.Fatalf("expected default session ttl 60, got %d", cfg.SessionTTLMinutes)
	}
	if cfg.RedisRevokedPrefix != "silverbank:revoked" {
		t.Fatalf("unexpected default revoked prefix %q", cfg.RedisRevokedPrefix)
	}
}

func TestLoadConfig_PortAliasWins(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "SERVER_PORT", "8080")
	setEnvWithCleanup(t, "PORT", "9090")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Fatalf("expected platform PORT to win, got %q", cfg.ServerPort)
	}
}

func TestLoadConfig_NonPositiveSessionTTLFallsBack(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "SESSION_TTL_MINUTES", "0")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.SessionTTLMinutes != 60 {
		t.Fatalf("expected fallback session ttl 60, got %d", cfg.SessionTTLMinutes)
	}
}

func TestAllowedOriginsSplitsAndTrims(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: "http://localhost:3000, https://silver-bank.example , "}

	origins := cfg.AllowedOrigins()
	if len(origins) != 2 {
		t.Fatalf("expected 2 origins, got %d: %v", len(origins), origins)
	}
	if origins[0] != "http://localhost:3000" || origins[1] != "https://silver-bank.example" {
		t.Fatalf("unexpected origins %v", origins)
	}
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
		}
	})
}
