package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/lexdraft/internal/config"
)

const baseConfig = `
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "2m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "lexdraft"
user = "lexdraft"
password = "lexdraft"
ssl_mode = "disable"

[storage]
container_name = "artifacts"
connection_string = "DefaultEndpointsProtocol=http;AccountName=lexdraftstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/lexdraftstore;"

[api]
base_path = "/api"
max_body_size = "2MB"

[api.pagination]
default_page_size = 25
max_page_size = 50

[engine]
place = "Bengaluru"

[documents]
retry_attempts = 5
retry_delay = "250ms"
max_batch_size = 10
`

const overlayConfig = `
[server]
port = 9090

[engine]
place = "Chennai"

[documents]
disable_archive = true
`

const minimalConfig = `
[database]
name = "lexdraft"
user = "lexdraft"

[storage]
connection_string = "conn"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.ContainerName != "artifacts" {
		t.Errorf("storage container: got %s, want artifacts", cfg.Storage.ContainerName)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("server addr: got %s", cfg.Server.Addr())
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.MaxBodySizeBytes() != 2*1024*1024 {
		t.Errorf("max_body_size: got %d, want 2MB", cfg.API.MaxBodySizeBytes())
	}
	if cfg.Engine.Place != "Bengaluru" {
		t.Errorf("engine place: got %s, want Bengaluru", cfg.Engine.Place)
	}
	if cfg.Documents.RetryAttempts != 5 {
		t.Errorf("retry_attempts: got %d, want 5", cfg.Documents.RetryAttempts)
	}
	if cfg.Documents.RetryDelayDuration() != 250*time.Millisecond {
		t.Errorf("retry_delay: got %v, want 250ms", cfg.Documents.RetryDelayDuration())
	}
	if cfg.Documents.MaxBatchSize != 10 {
		t.Errorf("max_batch_size: got %d, want 10", cfg.Documents.MaxBatchSize)
	}
	if cfg.Documents.DisableArchive {
		t.Error("archive should be enabled by default")
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.prod.toml", overlayConfig)
	t.Chdir(dir)
	t.Setenv(config.EnvLexdraftEnv, "prod")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server host should survive overlay, got %s", cfg.Server.Host)
	}
	if cfg.Engine.Place != "Chennai" {
		t.Errorf("engine place: got %s, want Chennai", cfg.Engine.Place)
	}
	if !cfg.Documents.DisableArchive {
		t.Error("overlay should disable archive")
	}
	if cfg.Env() != "prod" {
		t.Errorf("env: got %s, want prod", cfg.Env())
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, minimalConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Engine.Place != "New Delhi" {
		t.Errorf("engine place: got %s, want New Delhi", cfg.Engine.Place)
	}
	if cfg.Engine.Registry != "" {
		t.Errorf("engine registry: got %s, want builtin", cfg.Engine.Registry)
	}
	if cfg.API.MaxBodySize != "1MB" {
		t.Errorf("max_body_size: got %s, want 1MB", cfg.API.MaxBodySize)
	}
	if cfg.Documents.RetryAttempts != 3 || cfg.Documents.MaxBatchSize != 25 || cfg.Documents.PassageLimit != 3 {
		t.Errorf("documents defaults: %+v", cfg.Documents)
	}
	if cfg.Documents.Concurrency < 1 {
		t.Errorf("concurrency: got %d", cfg.Documents.Concurrency)
	}
	if cfg.Server.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v", cfg.Server.ShutdownTimeoutDuration())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, minimalConfig)
	t.Chdir(dir)

	registry := filepath.Join(dir, "types.yaml")
	writeConfig(t, dir, "types.yaml", "default: x\n")

	t.Setenv(config.EnvServerPort, "7070")
	t.Setenv(config.EnvEnginePlace, "Kolkata")
	t.Setenv(config.EnvEngineRegistry, registry)
	t.Setenv(config.EnvDocumentsDisableArchive, "true")
	t.Setenv(config.EnvDocumentsMaxBatchSize, "4")
	t.Setenv("LEXDRAFT_DB_CONNECT_ATTEMPTS", "9")
	t.Setenv("LEXDRAFT_CORS_ORIGINS", "http://drafts.test, http://review.test")
	t.Setenv(config.EnvAPIMaxBodySize, "512KB")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server port: got %d, want 7070", cfg.Server.Port)
	}
	if cfg.Engine.Place != "Kolkata" {
		t.Errorf("engine place: got %s, want Kolkata", cfg.Engine.Place)
	}
	if cfg.Engine.Registry != registry {
		t.Errorf("engine registry: got %s, want %s", cfg.Engine.Registry, registry)
	}
	if !cfg.Documents.DisableArchive {
		t.Error("archive should be disabled by env")
	}
	if cfg.Documents.MaxBatchSize != 4 {
		t.Errorf("max_batch_size: got %d, want 4", cfg.Documents.MaxBatchSize)
	}
	if cfg.API.MaxBodySizeBytes() != 512*1024 {
		t.Errorf("max_body_size: got %d, want 512KB", cfg.API.MaxBodySizeBytes())
	}
	if cfg.Database.ConnectAttempts != 9 {
		t.Errorf("connect_attempts: got %d, want 9", cfg.Database.ConnectAttempts)
	}
	if len(cfg.API.CORS.Origins) != 2 || cfg.API.CORS.Origins[1] != "http://review.test" {
		t.Errorf("cors origins: got %v", cfg.API.CORS.Origins)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing registry file",
			env:     map[string]string{config.EnvEngineRegistry: "/nonexistent/types.yaml"},
			wantErr: "engine",
		},
		{
			name:    "bad retry delay",
			env:     map[string]string{config.EnvDocumentsRetryDelay: "soon"},
			wantErr: "retry_delay",
		},
		{
			name:    "zero batch size",
			env:     map[string]string{config.EnvDocumentsMaxBatchSize: "-1"},
			wantErr: "max_batch_size",
		},
		{
			name:    "bad body size",
			env:     map[string]string{config.EnvAPIMaxBodySize: "lots"},
			wantErr: "max_body_size",
		},
		{
			name:    "nested base path",
			env:     map[string]string{config.EnvAPIBasePath: "/api/v1"},
			wantErr: "base_path",
		},
		{
			name:    "zero connect attempts",
			env:     map[string]string{"LEXDRAFT_DB_CONNECT_ATTEMPTS": "-2"},
			wantErr: "connect_attempts",
		},
		{
			name:    "bad port",
			env:     map[string]string{config.EnvServerPort: "70000"},
			wantErr: "invalid port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, config.BaseConfigFile, minimalConfig)
			t.Chdir(dir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, "[server\nport = ")
	t.Chdir(dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadDirOverlayWithoutBase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.staging.toml", minimalConfig+overlayConfig)
	t.Setenv(config.EnvLexdraftEnv, "staging")

	cfg, err := config.LoadDir(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server host: got %s, want default", cfg.Server.Host)
	}
}

func TestEnvDefault(t *testing.T) {
	t.Setenv(config.EnvLexdraftEnv, "")

	if got := (&config.Config{}).Env(); got != "local" {
		t.Errorf("Env() = %s, want local", got)
	}
}
