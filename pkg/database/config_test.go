package database_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/lexdraft/pkg/database"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{Name: "lexdraft", User: "lexdraft"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"host", cfg.Host, "localhost"},
		{"port", cfg.Port, 5432},
		{"ssl_mode", cfg.SSLMode, "disable"},
		{"application_name", cfg.ApplicationName, "lexdraft"},
		{"max_open_conns", cfg.MaxOpenConns, 25},
		{"max_idle_conns", cfg.MaxIdleConns, 5},
		{"conn_max_lifetime", cfg.ConnMaxLifetime, "15m"},
		{"conn_timeout", cfg.ConnTimeout, "5s"},
		{"connect_attempts", cfg.ConnectAttempts, 5},
		{"connect_delay", cfg.ConnectDelay, "1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_NAME", "drafts")
	t.Setenv("TEST_DB_USER", "writer")
	t.Setenv("TEST_DB_PASSWORD", "secret")
	t.Setenv("TEST_DB_ATTEMPTS", "12")
	t.Setenv("TEST_DB_DELAY", "250ms")

	env := &database.Env{
		Host:            "TEST_DB_HOST",
		Port:            "TEST_DB_PORT",
		Name:            "TEST_DB_NAME",
		User:            "TEST_DB_USER",
		Password:        "TEST_DB_PASSWORD",
		ConnectAttempts: "TEST_DB_ATTEMPTS",
		ConnectDelay:    "TEST_DB_DELAY",
	}

	cfg := database.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Host != "db.internal" || cfg.Port != 5433 {
		t.Errorf("address: got %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.Name != "drafts" || cfg.User != "writer" || cfg.Password != "secret" {
		t.Errorf("credentials not applied: %+v", cfg)
	}
	if cfg.ConnectAttempts != 12 {
		t.Errorf("connect_attempts: got %d, want 12", cfg.ConnectAttempts)
	}
	if d := cfg.ConnectDelayDuration(); d != 250*time.Millisecond {
		t.Errorf("connect_delay: got %v, want 250ms", d)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"missing name", database.Config{User: "lexdraft"}, "name required"},
		{"missing user", database.Config{Name: "lexdraft"}, "user required"},
		{"negative attempts", database.Config{Name: "lexdraft", User: "lexdraft", ConnectAttempts: -1}, "connect_attempts must be positive"},
		{"invalid conn_max_lifetime", database.Config{Name: "lexdraft", User: "lexdraft", ConnMaxLifetime: "forever"}, "invalid conn_max_lifetime"},
		{"invalid conn_timeout", database.Config{Name: "lexdraft", User: "lexdraft", ConnTimeout: "soon"}, "invalid conn_timeout"},
		{"invalid connect_delay", database.Config{Name: "lexdraft", User: "lexdraft", ConnectDelay: "later"}, "invalid connect_delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{
		Host:            "localhost",
		Port:            5432,
		Name:            "lexdraft",
		User:            "lexdraft",
		ConnectAttempts: 5,
	}

	base.Merge(&database.Config{Host: "db.internal", ApplicationName: "lexdraft-batch"})

	if base.Host != "db.internal" {
		t.Errorf("host: got %s, want db.internal", base.Host)
	}
	if base.ApplicationName != "lexdraft-batch" {
		t.Errorf("application_name: got %s, want lexdraft-batch", base.ApplicationName)
	}
	if base.Port != 5432 || base.User != "lexdraft" || base.ConnectAttempts != 5 {
		t.Errorf("zero overlay fields should not overwrite: %+v", base)
	}
}

func TestDsn(t *testing.T) {
	cfg := database.Config{
		Host:            "localhost",
		Port:            5432,
		Name:            "lexdraft",
		User:            "lexdraft",
		Password:        "p@ss word",
		SSLMode:         "disable",
		ApplicationName: "lexdraft",
	}

	u, err := url.Parse(cfg.Dsn())
	if err != nil {
		t.Fatalf("dsn does not parse: %v", err)
	}

	if u.Scheme != "postgres" {
		t.Errorf("scheme: got %s, want postgres", u.Scheme)
	}
	if u.Host != "localhost:5432" {
		t.Errorf("host: got %s", u.Host)
	}
	if u.Path != "/lexdraft" {
		t.Errorf("path: got %s", u.Path)
	}
	if pw, _ := u.User.Password(); pw != "p@ss word" {
		t.Errorf("password: got %q", pw)
	}

	q := u.Query()
	if q.Get("sslmode") != "disable" {
		t.Errorf("sslmode: got %s", q.Get("sslmode"))
	}
	if q.Get("application_name") != "lexdraft" {
		t.Errorf("application_name: got %s", q.Get("application_name"))
	}
}

func TestDsnWithoutPassword(t *testing.T) {
	cfg := database.Config{Host: "localhost", Port: 5432, Name: "lexdraft", User: "lexdraft", SSLMode: "disable"}

	u, err := url.Parse(cfg.Dsn())
	if err != nil {
		t.Fatalf("dsn does not parse: %v", err)
	}
	if _, set := u.User.Password(); set {
		t.Error("password should be omitted when empty")
	}
	if u.Query().Has("application_name") {
		t.Error("application_name should be omitted when empty")
	}
}
