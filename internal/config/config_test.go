package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allEnvVars = []string{
	"WLED_CONFIG", "WLED_ENV_FILE", "WLED_HTTP_ADDR", "WLED_GRPC_ADDR", "WLED_KV_BINDING", "WLED_KV_BACKEND",
	"WLED_DATABASE_URL", "WLED_NATS_URL", "WLED_NATS_KV_BUCKET",
	"WLED_S3_BUCKET", "WLED_S3_REGION", "WLED_S3_ENDPOINT", "WLED_S3_PREFIX",
	"WLED_SHUTDOWN_TIMEOUT", "WLED_LOG_LEVEL", "WLED_LOG_FORMAT",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.GRPCAddr != "" {
		t.Errorf("GRPCAddr = %q, want empty", cfg.GRPCAddr)
	}
	if cfg.KVBinding != "WLED_EFFECT" {
		t.Errorf("KVBinding = %q, want %q", cfg.KVBinding, "WLED_EFFECT")
	}
	if cfg.KVBackend != BackendNone {
		t.Errorf("KVBackend = %q, want empty", cfg.KVBackend)
	}
	if cfg.NATSBucket != "wled_effect" {
		t.Errorf("NATSBucket = %q", cfg.NATSBucket)
	}
	if cfg.S3Region != "us-east-1" || cfg.S3Prefix != "wled/" {
		t.Errorf("S3Region = %q, S3Prefix = %q", cfg.S3Region, cfg.S3Prefix)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "text" {
		t.Errorf("LogLevel = %v, LogFormat = %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_Backends(t *testing.T) {
	for _, tc := range []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "Memory", env: map[string]string{"WLED_KV_BACKEND": "memory"}},
		{name: "MemoryUpperCase", env: map[string]string{"WLED_KV_BACKEND": "MEMORY"}},
		{
			name:    "PostgresMissingURL",
			env:     map[string]string{"WLED_KV_BACKEND": "postgres"},
			wantErr: "WLED_DATABASE_URL",
		},
		{
			name: "Postgres",
			env:  map[string]string{"WLED_KV_BACKEND": "postgres", "WLED_DATABASE_URL": "postgres://localhost/wled"},
		},
		{
			name:    "NATSMissingURL",
			env:     map[string]string{"WLED_KV_BACKEND": "nats"},
			wantErr: "WLED_NATS_URL",
		},
		{
			name: "NATS",
			env:  map[string]string{"WLED_KV_BACKEND": "nats", "WLED_NATS_URL": "nats://localhost:4222"},
		},
		{
			name:    "S3MissingBucket",
			env:     map[string]string{"WLED_KV_BACKEND": "s3"},
			wantErr: "WLED_S3_BUCKET",
		},
		{
			name: "S3",
			env:  map[string]string{"WLED_KV_BACKEND": "s3", "WLED_S3_BUCKET": "wled-status"},
		},
		{
			name:    "Unknown",
			env:     map[string]string{"WLED_KV_BACKEND": "redis"},
			wantErr: "unknown backend",
		},
		{
			name:    "BadShutdownTimeout",
			env:     map[string]string{"WLED_SHUTDOWN_TIMEOUT": "soon"},
			wantErr: "WLED_SHUTDOWN_TIMEOUT",
		},
		{
			name:    "BadLogLevel",
			env:     map[string]string{"WLED_LOG_LEVEL": "loud"},
			wantErr: "WLED_LOG_LEVEL",
		},
		{
			name:    "BadLogFormat",
			env:     map[string]string{"WLED_LOG_FORMAT": "xml"},
			wantErr: "WLED_LOG_FORMAT",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tc.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tc.wantErr) {
					t.Errorf("error %q does not mention %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	clearAllEnv(t)

	path := filepath.Join(t.TempDir(), "wledrelay.toml")
	data := `
http_addr = ":9000"
kv_binding = "LIGHTS"
kv_backend = "nats"
nats_url = "nats://file:4222"
shutdown_timeout = "3s"
log_level = "debug"
log_format = "json"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("WLED_CONFIG", path)
	t.Setenv("WLED_HTTP_ADDR", ":7000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Errorf("HTTPAddr = %q, want env override %q", cfg.HTTPAddr, ":7000")
	}
	if cfg.KVBinding != "LIGHTS" {
		t.Errorf("KVBinding = %q, want %q", cfg.KVBinding, "LIGHTS")
	}
	if cfg.KVBackend != BackendNATS || cfg.NATSURL != "nats://file:4222" {
		t.Errorf("KVBackend = %q, NATSURL = %q", cfg.KVBackend, cfg.NATSURL)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 3s", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
		t.Errorf("LogLevel = %v, LogFormat = %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("WLED_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearAllEnv(t)
	os.Unsetenv("WLED_LOG_FORMAT")
	os.Unsetenv("WLED_KV_BINDING")
	t.Setenv("WLED_HTTP_ADDR", ":7000")

	path := filepath.Join(t.TempDir(), "relay.env")
	content := "WLED_LOG_FORMAT=json\nWLED_KV_BINDING=FX\nWLED_HTTP_ADDR=:9999\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WLED_ENV_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogFormat != "json" || cfg.KVBinding != "FX" {
		t.Errorf("env file values not applied: %+v", cfg)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Errorf("HTTPAddr = %q, want process env to win over env file", cfg.HTTPAddr)
	}
}

func TestLoad_EnvFileMissing(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("WLED_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing env file")
	}
}
