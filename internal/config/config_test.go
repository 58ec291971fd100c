package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Server.Listen != DefaultListen {
		t.Fatalf("listen=%q", cfg.Server.Listen)
	}
	if cfg.Exec.Timeout != 30*time.Second {
		t.Fatalf("exec.timeout=%s", cfg.Exec.Timeout)
	}
	if cfg.Logs.MaxLines != 15 || cfg.Logs.Tail != DefaultLogTail {
		t.Fatalf("logs=%+v", cfg.Logs)
	}
	if strings.Join(cfg.Logs.Keywords, ",") != "beacon,path,signer,error" {
		t.Fatalf("keywords=%v", cfg.Logs.Keywords)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "viz.yaml")
	data := "" +
		"project_root: /srv/scion\n" +
		"exec:\n  timeout: 10s\n" +
		"scion:\n  container: scion-as211\n  ping_count: 5\n" +
		"ratelimit:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProjectRoot != "/srv/scion" || cfg.Exec.Timeout != 10*time.Second {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.SCION.Container != "scion-as211" || cfg.SCION.PingCount != 5 {
		t.Fatalf("scion=%+v", cfg.SCION)
	}
	if cfg.SCION.Sciond != DefaultSciond {
		t.Fatalf("sciond default lost: %q", cfg.SCION.Sciond)
	}
	if cfg.RateLimit.Enabled {
		t.Fatalf("ratelimit should be disabled")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SCIONVIZ_SERVER_LISTEN", "127.0.0.1:9999")
	t.Setenv("SCIONVIZ_EXEC_TIMEOUT", "3s")

	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Listen != "127.0.0.1:9999" {
		t.Fatalf("listen=%q", cfg.Server.Listen)
	}
	if cfg.Exec.Timeout != 3*time.Second {
		t.Fatalf("timeout=%s", cfg.Exec.Timeout)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"server.listen", func(c *Config) { c.Server.Listen = "no-port" }},
		{"project_root", func(c *Config) { c.ProjectRoot = "" }},
		{"exec.timeout", func(c *Config) { c.Exec.Timeout = 0 }},
		{"scion.container", func(c *Config) { c.SCION.Container = "" }},
		{"scion.ping_count", func(c *Config) { c.SCION.PingCount = 0 }},
		{"logs", func(c *Config) { c.Logs.MaxLines = 0 }},
		{"logs.keywords", func(c *Config) { c.Logs.Keywords = nil }},
		{"ratelimit", func(c *Config) { c.RateLimit.Requests = 0 }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		err := cfg.Validate()
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Fatalf("%s: err=%v", tt.field, err)
		}
		if cerr.Field != tt.field {
			t.Fatalf("field=%q want %q", cerr.Field, tt.field)
		}
	}
}

func TestYAML(t *testing.T) {
	t.Parallel()

	out, err := Default().YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	s := string(out)
	for _, want := range []string{"0.0.0.0:8080", "timeout: 30s", "container: scion-as111"} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in:\n%s", want, s)
		}
	}
}
