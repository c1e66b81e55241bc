package config

import (
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
)

func noEnv(string) string { return "" }

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, noEnv, io.Discard)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != DefaultDBPath || cfg.Addr != DefaultAddr || cfg.BackendURL != DefaultBackendURL {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Location == nil {
		t.Error("expected a location")
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	env := envOf(map[string]string{
		"TRANSFERHUB_BACKEND_URL": "https://transfers.example.com/",
		"TRANSFERHUB_ADDR":        ":9000",
		"TRANSFERHUB_TZ":          "Europe/Ljubljana",
	})

	cfg, err := Load([]string{"-a", ":9100", "-db", "/tmp/desk.db"}, env, io.Discard)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9100" {
		t.Errorf("flag should win over env, got addr %q", cfg.Addr)
	}
	if cfg.DBPath != "/tmp/desk.db" {
		t.Errorf("got db %q", cfg.DBPath)
	}
	if cfg.BackendURL != "https://transfers.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.BackendURL)
	}
	if cfg.Location.String() != "Europe/Ljubljana" {
		t.Errorf("got location %q", cfg.Location)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad scheme", []string{"-backend", "ftp://host"}, "scheme"},
		{"no host", []string{"-b", "http://"}, "missing host"},
		{"bad tz", []string{"-tz", "Mars/Olympus"}, "time zone"},
		{"extra arg", []string{"serve"}, "unexpected argument"},
		{"empty db", []string{"-d", ""}, "database path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, noEnv, io.Discard)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadHelp(t *testing.T) {
	var out strings.Builder
	_, err := Load([]string{"-h"}, noEnv, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(out.String(), "TRANSFERHUB_BACKEND_URL") {
		t.Errorf("usage missing env vars: %q", out.String())
	}
}
