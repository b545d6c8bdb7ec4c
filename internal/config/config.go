// Package config loads relay settings from an optional TOML file and the
// environment. Environment variables win over the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Supported values for KVBackend.
const (
	BackendNone     = ""
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendNATS     = "nats"
	BackendS3       = "s3"
)

type Config struct {
	HTTPAddr  string `toml:"http_addr"`  // WLED_HTTP_ADDR (default ":8080")
	GRPCAddr  string `toml:"grpc_addr"`  // WLED_GRPC_ADDR (optional, empty = no gRPC health listener)
	KVBinding string `toml:"kv_binding"` // WLED_KV_BINDING (default "WLED_EFFECT")
	KVBackend string `toml:"kv_backend"` // WLED_KV_BACKEND (memory, postgres, nats, s3; empty = unbound)

	DatabaseURL string `toml:"database_url"` // WLED_DATABASE_URL (required for postgres)

	NATSURL    string `toml:"nats_url"`       // WLED_NATS_URL (required for nats; enables events)
	NATSBucket string `toml:"nats_kv_bucket"` // WLED_NATS_KV_BUCKET (default "wled_effect")

	S3Bucket   string `toml:"s3_bucket"`   // WLED_S3_BUCKET (required for s3)
	S3Region   string `toml:"s3_region"`   // WLED_S3_REGION (default "us-east-1")
	S3Endpoint string `toml:"s3_endpoint"` // WLED_S3_ENDPOINT (custom endpoint for MinIO)
	S3Prefix   string `toml:"s3_prefix"`   // WLED_S3_PREFIX (default "wled/")

	// WLED_SHUTDOWN_TIMEOUT (default 10s), parsed from RawShutdown.
	ShutdownTimeout time.Duration `toml:"-"`
	RawShutdown     string        `toml:"shutdown_timeout"`

	// WLED_LOG_LEVEL (default info), parsed from RawLogLevel.
	LogLevel    slog.Level `toml:"-"`
	RawLogLevel string     `toml:"log_level"`

	LogFormat string `toml:"log_format"` // WLED_LOG_FORMAT (text or json, default text)
}

// Load reads the file named by WLED_CONFIG when set, then applies
// environment overrides and defaults. Variables from the dotenv file named by
// WLED_ENV_FILE are added to the environment first; they never replace
// variables that are already set.
func Load() (*Config, error) {
	if path := os.Getenv("WLED_ENV_FILE"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("WLED_ENV_FILE %s: %w", path, err)
		}
	}

	c := &Config{}
	if path := os.Getenv("WLED_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return nil, fmt.Errorf("WLED_CONFIG %s: %w", path, err)
		}
	}

	c.HTTPAddr = envOrDefault("WLED_HTTP_ADDR", c.HTTPAddr, ":8080")
	c.GRPCAddr = envOrDefault("WLED_GRPC_ADDR", c.GRPCAddr, "")
	c.KVBinding = envOrDefault("WLED_KV_BINDING", c.KVBinding, "WLED_EFFECT")
	c.KVBackend = strings.ToLower(envOrDefault("WLED_KV_BACKEND", c.KVBackend, BackendNone))
	c.DatabaseURL = envOrDefault("WLED_DATABASE_URL", c.DatabaseURL, "")
	c.NATSURL = envOrDefault("WLED_NATS_URL", c.NATSURL, "")
	c.NATSBucket = envOrDefault("WLED_NATS_KV_BUCKET", c.NATSBucket, "wled_effect")
	c.S3Bucket = envOrDefault("WLED_S3_BUCKET", c.S3Bucket, "")
	c.S3Region = envOrDefault("WLED_S3_REGION", c.S3Region, "us-east-1")
	c.S3Endpoint = envOrDefault("WLED_S3_ENDPOINT", c.S3Endpoint, "")
	c.S3Prefix = envOrDefault("WLED_S3_PREFIX", c.S3Prefix, "wled/")
	c.RawShutdown = envOrDefault("WLED_SHUTDOWN_TIMEOUT", c.RawShutdown, "10s")
	c.RawLogLevel = envOrDefault("WLED_LOG_LEVEL", c.RawLogLevel, "info")
	c.LogFormat = strings.ToLower(envOrDefault("WLED_LOG_FORMAT", c.LogFormat, "text"))

	d, err := time.ParseDuration(c.RawShutdown)
	if err != nil {
		return nil, fmt.Errorf("WLED_SHUTDOWN_TIMEOUT: %w", err)
	}
	c.ShutdownTimeout = d

	if err := c.LogLevel.UnmarshalText([]byte(c.RawLogLevel)); err != nil {
		return nil, fmt.Errorf("WLED_LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return nil, fmt.Errorf("WLED_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	switch c.KVBackend {
	case BackendNone, BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("WLED_DATABASE_URL is required for the postgres backend")
		}
	case BackendNATS:
		if c.NATSURL == "" {
			return nil, fmt.Errorf("WLED_NATS_URL is required for the nats backend")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return nil, fmt.Errorf("WLED_S3_BUCKET is required for the s3 backend")
		}
	default:
		return nil, fmt.Errorf("WLED_KV_BACKEND: unknown backend %q", c.KVBackend)
	}

	return c, nil
}

// NewLogger builds the process logger described by the config.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// envOrDefault returns the environment value for key, else the file value,
// else fallback.
func envOrDefault(key, fromFile, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if fromFile != "" {
		return fromFile
	}
	return fallback
}
