package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != "development" {
		t.Fatalf("expected development env, got %q", cfg.Env)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.HTTPAddr)
	}
	if cfg.SearchCountry != "us" {
		t.Fatalf("expected default country us, got %q", cfg.SearchCountry)
	}
	if cfg.HistoryKey != "locator:recent_locations" {
		t.Fatalf("unexpected history key: %q", cfg.HistoryKey)
	}
	if cfg.HistoryLimit != 5 {
		t.Fatalf("expected default limit 5, got %d", cfg.HistoryLimit)
	}
	if cfg.LocateTimeout != 10*time.Second {
		t.Fatalf("expected default timeout 10s, got %v", cfg.LocateTimeout)
	}
}

func TestLoadNormalizesCountry(t *testing.T) {
	t.Setenv("SEARCH_COUNTRY", "NL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SearchCountry != "nl" {
		t.Fatalf("expected lowercased country, got %q", cfg.SearchCountry)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero history limit", "HISTORY_LIMIT", "0"},
		{"non-numeric history limit", "HISTORY_LIMIT", "lots"},
		{"negative locate timeout", "LOCATE_TIMEOUT", "-5s"},
		{"malformed locate timeout", "LOCATE_TIMEOUT", "soon"},
		{"long country code", "SEARCH_COUNTRY", "usa"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoadWildcardOriginImpliesAllowAll(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.CORSAllowAll {
		t.Fatal("wildcard origin must imply allow-all")
	}
}

func TestLoadRejectsCredentialsWithAllowAll(t *testing.T) {
	t.Setenv("CORS_ALLOW_ALL", "true")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for credentials with allow-all")
	}
}
