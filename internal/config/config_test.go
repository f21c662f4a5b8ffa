package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validConfig = `
server:
  host: 127.0.0.1
  port: 8080
database:
  host: localhost
  port: 5432
  name: liftdb
  user: lifter
  password: secret
auth:
  api_key: test-key
`

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "liftdb" {
		t.Errorf("database.name = %q, want liftdb", cfg.Database.Name)
	}
	if cfg.Auth.APIKey != "test-key" {
		t.Errorf("auth.api_key = %q, want test-key", cfg.Auth.APIKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		config string
	}{
		{
			name: "missing api key",
			config: `
server: {port: 8080}
database: {host: localhost, port: 5432, name: liftdb, user: lifter}
`,
		},
		{
			name: "missing database host",
			config: `
server: {port: 8080}
database: {port: 5432, name: liftdb, user: lifter}
auth: {api_key: k}
`,
		},
		{
			name: "tailscale enabled without hostname",
			config: validConfig + `
tailscale:
  enabled: true
`,
		},
		{
			name: "deload percentage out of range",
			config: validConfig + `
progression:
  deload_percentage: 1.5
`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.config)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WSUB_SERVER_PORT", "9999")
	t.Setenv("WSUB_DB_PASSWORD", "from-env")
	t.Setenv("WSUB_AUTH_API_KEY", "env-key")

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want env override 9999", cfg.Server.Port)
	}
	if cfg.Database.Password != "from-env" {
		t.Errorf("database.password = %q, want from-env", cfg.Database.Password)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q, want env-key", cfg.Auth.APIKey)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "liftdb", User: "u", Password: "p"}
	want := "postgres://u:p@db:5432/liftdb?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

// TestProgressionEngineDefaults verifies unset progression fields fall back
// to the engine defaults while overrides stick.
func TestProgressionEngineDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig+`
progression:
  load_increment: 10
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	eng, err := cfg.Progression.Engine()
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if eng.LoadIncrement != 10 {
		t.Errorf("load_increment = %g, want override 10", eng.LoadIncrement)
	}
	if eng.FailuresBeforeDeload == 0 || eng.PlateStep == 0 {
		t.Error("unset fields did not inherit engine defaults")
	}
}
