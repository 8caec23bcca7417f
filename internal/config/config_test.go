package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileIsDemoMode(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("missing config must not error: %v", err)
	}
	if cfg.Port != defaultPort {
		t.Fatalf("port = %d, want default %d", cfg.Port, defaultPort)
	}
	if cfg.StoreConfigured() {
		t.Fatal("no config file must leave the store unconfigured")
	}
	if !cfg.IsDev() {
		t.Fatal("defaults should be development env")
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: production
dsn: "app:secret@tcp(db.internal:3306)/impactflow?parseTime=True"
allowed_origins:
  - "https://impactflow.org"
  - "  "
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.Env != "production" || cfg.IsDev() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.StoreConfigured() {
		t.Fatal("real DSN must count as configured")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://impactflow.org" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestStoreConfiguredRejectsPlaceholders(t *testing.T) {
	cases := []struct {
		dsn  string
		want bool
	}{
		{"", false},
		{"your-username:your-password@tcp(localhost:3306)/db", false},
		{"admin:changeme@tcp(localhost:3306)/db", false},
		{"<user>:<password>@tcp(localhost:3306)/db", false},
		{"app:s3cret@tcp(db:3306)/impactflow", true},
	}
	for _, tc := range cases {
		cfg := AppConfig{DSN: tc.dsn}
		if got := cfg.StoreConfigured(); got != tc.want {
			t.Errorf("StoreConfigured(%q) = %v, want %v", tc.dsn, got, tc.want)
		}
	}
}

func TestDSNValueFromParts(t *testing.T) {
	db := DatabaseRuntimeConfig{
		User:     "app",
		Password: "pw",
		Host:     "db.internal",
		Name:     "impactflow",
	}
	got := db.DSNValue()
	want := "app:pw@tcp(db.internal:3306)/impactflow?charset=utf8mb4&loc=Local&parseTime=True"
	if got != want {
		t.Fatalf("DSNValue = %q, want %q", got, want)
	}
}

func TestDSNValueEmptyWhenNothingSet(t *testing.T) {
	if got := (DatabaseRuntimeConfig{}).DSNValue(); got != "" {
		t.Fatalf("DSNValue = %q, want empty", got)
	}
}

func TestActiveProviderPicksFirstEnabled(t *testing.T) {
	ai := AIConfig{Providers: []AIProvider{
		{ID: "off", Enabled: false},
		{ID: "on", Enabled: true},
		{ID: "also-on", Enabled: true},
	}}
	p := ai.ActiveProvider()
	if p == nil || p.ID != "on" {
		t.Fatalf("ActiveProvider = %+v", p)
	}
	if (AIConfig{}).ActiveProvider() != nil {
		t.Fatal("empty config must have no active provider")
	}
}
